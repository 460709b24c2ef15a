package maps

import (
	"fmt"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/text"
)

const hiddenListEnd = 0xff

// Frame shades of hidden objects.
const (
	shadeHiddenKnown   = 1
	shadeHiddenUnknown = 2
)

// HiddenInfo is the exported description of a hidden object. Content is
// nil for hidden objects that only run a script.
type HiddenInfo struct {
	Pos     Position `json:"pos"`
	Content *string  `json:"content"`
}

// HiddenIndex maps map ids to their hidden object list.
type HiddenIndex map[uint8]rom.Addr

// LoadHiddenIndex reads the 0xff terminated map id list and the pointers
// stored right after it.
func LoadHiddenIndex(data []byte) (HiddenIndex, error) {
	r := rom.NewReader(data, addresses.MapHiddens)
	ids, err := rom.ReadUntil(r, hiddenListEnd)
	if err != nil {
		return nil, fmt.Errorf("hidden object index: %w", err)
	}
	idx := make(HiddenIndex, len(ids))
	for _, id := range ids {
		idx[id] = rom.NewAddr(addresses.MapHiddens.Bank, r.ReadU16())
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("hidden object index: %w", err)
	}
	return idx, nil
}

// Load returns the hidden objects of a map, if it has any.
func (idx HiddenIndex) Load(data []byte, mapID uint8) ([]HiddenInfo, error) {
	addr, ok := idx[mapID]
	if !ok {
		return nil, nil
	}
	entries, err := rom.NewTable[HiddenEntry](data, addr).TakeWhile(func(h HiddenEntry) bool {
		return h.Y != hiddenListEnd
	})
	if err != nil {
		return nil, err
	}
	infos := make([]HiddenInfo, 0, len(entries))
	for _, h := range entries {
		info, err := newHiddenInfo(data, &h)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func newHiddenInfo(data []byte, h *HiddenEntry) (HiddenInfo, error) {
	info := HiddenInfo{Pos: Position{X: h.X, Y: h.Y}}
	switch rom.NewAddr(h.Bank, h.Addr) {
	case addresses.MapHiddenItemsScript:
		name, err := text.ItemName(data, h.ID)
		if err != nil {
			return info, err
		}
		info.Content = &name
	case addresses.MapHiddenCoinsScript:
		coins := fmt.Sprintf("%d coins", h.ID)
		info.Content = &coins
	}
	return info, nil
}

// hiddenFrame returns a one pixel wide square frame of the given shade.
func hiddenFrame(shade uint8) *gfx.Image2bpp {
	hi, lo := shade>>1, shade&1
	full := [2]byte{hi * 0xff, lo * 0xff}
	left := [2]byte{hi << 7, lo << 7}
	right := [2]byte{hi, lo}

	pix := make([]byte, gfx.SpriteSize)
	for y := range gfx.SpritePixels {
		row := pix[y*gfx.SpriteLineSize:]
		if y == 0 || y == gfx.SpritePixels-1 {
			copy(row[0:2], full[:])
			copy(row[2:4], full[:])
			continue
		}
		copy(row[0:2], left[:])
		copy(row[2:4], right[:])
	}
	img, _ := gfx.FromData(gfx.SpritePixels, gfx.SpritePixels, pix) // fixed geometry
	return img
}

func (h *HiddenInfo) sprite() *gfx.Image2bpp {
	if h.Content != nil {
		return hiddenFrame(shadeHiddenKnown)
	}
	return hiddenFrame(shadeHiddenUnknown)
}
