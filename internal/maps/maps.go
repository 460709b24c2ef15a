// Package maps walks the map graph of the cartridge, renders every map and
// stitches the outdoor maps into a single overworld picture.
package maps

import (
	"errors"
	"fmt"
	"image"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/wild"
)

// OverworldPath is the export path of the overworld picture.
const OverworldPath = "maps/overworld.png"

// ErrNoTrainers indicates that no map references a trainer.
var ErrNoTrainers = errors.New("no trainer found in any map")

// WarpInfo is the exported description of a warp.
type WarpInfo struct {
	Pos    Position `json:"pos"`
	ToMap  uint8    `json:"to_map"`
	ToWarp uint8    `json:"to_warp"`
}

// SignInfo is the exported description of a sign.
type SignInfo struct {
	Pos  Position `json:"pos"`
	Text string   `json:"text"`
}

// Info is the exported description of a map.
type Info struct {
	Warps    []WarpInfo       `json:"warps"`
	Signs    []SignInfo       `json:"signs"`
	Entities []EntityInfo     `json:"entities"`
	Wild     *wild.Encounters `json:"wild_pkmn"`
	Hiddens  []HiddenInfo     `json:"hiddens"`
	Coords   *Coord           `json:"coords"` // nil outside of the overworld
	Width    uint8            `json:"width"`
	Height   uint8            `json:"height"`
	PicPath  string           `json:"pic_path"`
}

// Map is a decoded map with its picture.
type Map struct {
	ID       uint8
	Info     Info
	Pic      *image.RGBA
	Trainers []uint8 // trainer class ids
}

// OverworldInfo is the exported description of the overworld picture, in
// 16x16 pixel units.
type OverworldInfo struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	PicPath string `json:"pic_path"`
}

// World holds every reachable map, indexed by map id.
type World struct {
	Maps   [MaxMaps]*Map
	Width  int
	Height int
}

// Load scans the map graph from map 0 and decodes every reached map.
func Load(data []byte, logger *log.Logger) (*World, error) {
	scanner := NewScanner(data, logger)
	if err := scanner.Scan(); err != nil {
		return nil, err
	}
	w := &World{}
	w.Width, w.Height = scanner.Normalize()

	hiddens, err := LoadHiddenIndex(data)
	if err != nil {
		return nil, err
	}
	encounters, err := wild.NewLoader(data)
	if err != nil {
		return nil, err
	}

	for _, n := range scanner.Nodes() {
		m, err := loadMap(data, n, hiddens, encounters, logger)
		if err != nil {
			return nil, fmt.Errorf("map 0x%02x: %w", n.ID, err)
		}
		w.Maps[n.ID] = m
	}
	logger.Info("Maps loaded",
		log.Int("maps", len(scanner.Nodes())),
		log.Int("overworld_width", w.Width),
		log.Int("overworld_height", w.Height))
	return w, nil
}

func loadMap(data []byte, n *Node, hiddens HiddenIndex, encounters *wild.Loader, logger *log.Logger) (*Map, error) {
	m := &Map{ID: n.ID}
	info := &m.Info
	info.Width, info.Height = n.Header.Width, n.Header.Height
	info.PicPath = fmt.Sprintf("maps/map-%02x.png", n.ID)
	if n.Placed {
		c := n.Coord
		info.Coords = &c
	}

	texts := rom.NewAddr(n.Addr.Bank, n.Header.Texts)
	var markers []marker

	info.Warps = make([]WarpInfo, 0, len(n.Warps))
	for _, wp := range n.Warps {
		pos := Position{X: wp.X, Y: wp.Y}
		info.Warps = append(info.Warps, WarpInfo{Pos: pos, ToMap: wp.ToMap, ToWarp: wp.ToWarp})
		markers = append(markers, marker{pos: pos, kind: gfx.KindWarp})
	}

	info.Signs = make([]SignInfo, 0, len(n.Signs))
	for _, s := range n.Signs {
		msg, err := mapText(data, texts, s.TextID)
		if err != nil {
			return nil, fmt.Errorf("sign at (%d,%d): %w", s.X, s.Y, err)
		}
		pos := Position{X: s.X, Y: s.Y}
		info.Signs = append(info.Signs, SignInfo{Pos: pos, Text: msg})
		markers = append(markers, marker{pos: pos, kind: gfx.KindSign})
	}

	rng := lcg(n.ID)
	info.Entities = make([]EntityInfo, 0, len(n.Entities))
	for i := range n.Entities {
		e := &n.Entities[i]
		ei, err := newEntityInfo(data, e, texts, logger)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		sprite, err := e.sprite(data, &rng)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		info.Entities = append(info.Entities, ei)
		markers = append(markers, marker{pos: ei.Pos, kind: gfx.KindEntity, sprite: sprite})
		if ei.Data.Trainer != nil {
			m.Trainers = append(m.Trainers, ei.Data.Trainer.ClassID)
		}
	}

	hidden, err := hiddens.Load(data, n.ID)
	if err != nil {
		return nil, fmt.Errorf("hidden objects: %w", err)
	}
	info.Hiddens = make([]HiddenInfo, 0, len(hidden))
	for i := range hidden {
		info.Hiddens = append(info.Hiddens, hidden[i])
		markers = append(markers, marker{pos: hidden[i].Pos, kind: gfx.KindHidden, sprite: hidden[i].sprite()})
	}

	if info.Wild, err = encounters.Load(n.ID); err != nil {
		return nil, fmt.Errorf("wild encounters: %w", err)
	}

	bg, err := background(data, n)
	if err != nil {
		return nil, err
	}
	m.Pic = bg.ToRGBA()
	applyMarkers(m.Pic, bg, markers, n.ID, logger)
	return m, nil
}

// OverworldInfo returns the exported description of the overworld picture.
func (w *World) OverworldInfo() OverworldInfo {
	return OverworldInfo{Width: w.Width, Height: w.Height, PicPath: OverworldPath}
}

// Infos returns the map descriptions indexed by map id, nil where no map
// was reached.
func (w *World) Infos() []*Info {
	last := -1
	for id, m := range w.Maps {
		if m != nil {
			last = id
		}
	}
	infos := make([]*Info, last+1)
	for id := range infos {
		if m := w.Maps[id]; m != nil {
			infos[id] = &m.Info
		}
	}
	return infos
}

// TrainerCount estimates the number of trainer classes from the highest
// class id placed on a map. A highest id of 0 is treated as no trainers.
func (w *World) TrainerCount() (int, error) {
	highest := 0
	for _, m := range w.Maps {
		if m == nil {
			continue
		}
		for _, id := range m.Trainers {
			highest = max(highest, int(id))
		}
	}
	if highest == 0 {
		return 0, ErrNoTrainers
	}
	return highest + 1, nil
}
