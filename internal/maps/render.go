package maps

import (
	"fmt"
	"image"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
)

// blockTiles is the number of tile ids in a block definition.
const blockTiles = 16

// marker highlights one 16x16 square of a map. Markers without a sprite
// recolor the background with the palette of their kind.
type marker struct {
	pos    Position
	kind   gfx.Kind
	sprite *gfx.Image2bpp
}

// background renders the blocks of a map without its objects.
func background(data []byte, n *Node) (*gfx.Image2bpp, error) {
	h := &n.Header
	tileset, err := rom.NewTable[Tileset](data, addresses.MapTilesets).EntryAt(int(h.Tileset))
	if err != nil {
		return nil, fmt.Errorf("tileset %d: %w", h.Tileset, err)
	}
	blockDefs := rom.NewSlicer(data, rom.NewAddr(tileset.Bank, tileset.Blocks), blockTiles)
	tiles := rom.NewSlicer(data, rom.NewAddr(tileset.Bank, tileset.Tiles), gfx.TileSize)

	w, hh := int(h.Width), int(h.Height)
	r := rom.NewReader(data, rom.NewAddr(n.Addr.Bank, h.Blocks))
	ids := r.ReadBytes(w * hh)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("block ids: %w", err)
	}

	blocks := make([]byte, 0, w*hh*gfx.BlockSize)
	blockPix := make([]byte, 0, blockTiles*gfx.TileSize)
	for _, id := range ids {
		def, err := blockDefs.SliceAt(int(id))
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", id, err)
		}
		blockPix = blockPix[:0]
		for _, t := range def {
			tile, err := tiles.SliceAt(int(t))
			if err != nil {
				return nil, fmt.Errorf("block %d tile %d: %w", id, t, err)
			}
			blockPix = append(blockPix, tile...)
		}
		blocks = append(blocks, gfx.TilesTo4x4(blockPix)...)
	}

	pic, err := gfx.NewImage2bpp(w*gfx.BlockPixels, hh*gfx.BlockPixels)
	if err != nil {
		return nil, err
	}
	gfx.BlocksToMap(pic.Pix, blocks, w, hh)
	return pic, nil
}

// applyMarkers draws markers over the RGBA rendering of bg.
func applyMarkers(dst *image.RGBA, bg *gfx.Image2bpp, markers []marker, id uint8, logger *log.Logger) {
	w, h := bg.Width/gfx.SpritePixels, bg.Height/gfx.SpritePixels
	seen := make(map[Position]bool, len(markers))
	for _, m := range markers {
		if seen[m.pos] {
			logger.Warn("Conflicting markers",
				log.String("map", fmt.Sprintf("0x%02x", id)),
				log.Int("x", int(m.pos.X)),
				log.Int("y", int(m.pos.Y)))
		}
		seen[m.pos] = true

		sx, sy := int(m.pos.X), int(m.pos.Y)
		if sx >= w || sy >= h {
			logger.Warn("Marker out of bounds",
				log.String("map", fmt.Sprintf("0x%02x", id)),
				log.Int("x", sx),
				log.Int("y", sy))
			continue
		}
		if m.sprite == nil {
			gfx.Recolor(dst, bg, sx, sy, m.kind)
		} else {
			gfx.Overlay(dst, m.sprite, sx, sy, m.kind)
		}
	}
}

// Overworld composes the placed maps into one picture. Map positions must
// already be normalized.
func (w *World) Overworld() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w.Width*gfx.SpritePixels, w.Height*gfx.SpritePixels))
	for _, m := range w.Maps {
		if m == nil || m.Info.Coords == nil {
			continue
		}
		c := m.Info.Coords
		gfx.Blend(dst, m.Pic, c.X*gfx.SpritePixels, c.Y*gfx.SpritePixels)
	}
	return dst
}
