package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Kind selects the palette used to render an element.
type Kind int

// Element kinds.
const (
	KindDefault Kind = iota
	KindWarp
	KindSign
	KindEntity
	KindHidden
)

// Palette maps the four shades to colors.
type Palette [4]color.RGBA

// palettes per element kind. Shade 0 of overlay kinds is transparent.
var palettes = [...]Palette{
	KindDefault: {
		{0xE8, 0xE8, 0xE8, 0xFF}, // Lightest
		{0x58, 0x58, 0x58, 0xFF},
		{0xA0, 0xA0, 0xA0, 0xFF},
		{0x10, 0x10, 0x10, 0xFF}, // Darkest
	},
	KindWarp: {
		{0xE8, 0xC0, 0xC0, 0xFF},
		{0xC0, 0x58, 0x58, 0xFF},
		{0xC0, 0xA0, 0xA0, 0xFF},
		{0xC0, 0x10, 0x10, 0xFF},
	},
	KindSign: {
		{0xC0, 0xC0, 0xE8, 0xFF},
		{0x58, 0x58, 0xC0, 0xFF},
		{0xA0, 0xA0, 0xC0, 0xFF},
		{0x10, 0x10, 0xC0, 0xFF},
	},
	KindEntity: {
		{0xFF, 0xFF, 0xFF, 0xFF}, // Transparent
		{0xE0, 0x58, 0xE8, 0xFF}, // Tint
		{0xDA, 0xC0, 0xC0, 0xFF}, // Skin
		{0x58, 0x10, 0x58, 0xFF}, // Outline
	},
	KindHidden: {
		{0xFF, 0xFF, 0xFF, 0xFF}, // Transparent
		{0xFF, 0x40, 0x00, 0xFF}, // Hidden item
		{0x40, 0xFF, 0x00, 0xFF}, // Hidden other
		{0xFF, 0xFF, 0xFF, 0xFF},
	},
}

// PaletteFor returns the palette of kind k.
func PaletteFor(k Kind) Palette {
	return palettes[k]
}

// ToRGBA renders m with the default palette.
func (m *Image2bpp) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	pal := palettes[KindDefault]
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			dst.SetRGBA(x, y, pal[m.At(x, y)])
		}
	}
	return dst
}

// Recolor repaints the sprite-sized square at sprite coordinates (sx, sy)
// of dst with shades from src and the palette of kind k.
func Recolor(dst *image.RGBA, src *Image2bpp, sx, sy int, k Kind) {
	pal := palettes[k]
	x0, y0 := sx*SpritePixels, sy*SpritePixels
	for y := 0; y < SpritePixels; y++ {
		for x := 0; x < SpritePixels; x++ {
			dst.SetRGBA(x0+x, y0+y, pal[src.At(x0+x, y0+y)])
		}
	}
}

// Overlay draws sprite over dst at sprite coordinates (sx, sy), leaving
// shade 0 pixels untouched.
func Overlay(dst *image.RGBA, sprite *Image2bpp, sx, sy int, k Kind) {
	pal := palettes[k]
	x0, y0 := sx*SpritePixels, sy*SpritePixels
	for y := 0; y < sprite.Height; y++ {
		for x := 0; x < sprite.Width; x++ {
			if shade := sprite.At(x, y); shade != 0 {
				dst.SetRGBA(x0+x, y0+y, pal[shade])
			}
		}
	}
}

// Blend copies src into dst with its top-left corner at (px, py).
func Blend(dst *image.RGBA, src image.Image, px, py int) {
	draw.Copy(dst, image.Pt(px, py), src, src.Bounds(), draw.Src, nil)
}

// Scale returns src enlarged by an integer factor.
func Scale(src image.Image, factor int) image.Image {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// SavePNG encodes img into path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// #nosec G304 - path is built from the output directory given on the CLI
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
