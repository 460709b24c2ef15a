// Package gfx implements the 2 bits per pixel image model used by decoded
// ROM graphics and its conversion to RGBA pictures.
//
// Pixels are stored row-major, 8 pixels in 2 bytes: the first byte holds
// the high bit of each pixel and the second byte the low bit, most
// significant bit leftmost.
package gfx

import (
	"errors"
	"fmt"
)

// Pixel granularities. Tiles are 8x8, sprites 2x2 tiles, blocks 4x4 tiles.
const (
	TilePixels   = 8
	SpritePixels = 2 * TilePixels
	BlockPixels  = 4 * TilePixels

	// Line sizes in bytes.
	TileLineSize   = TilePixels * 2 / 8
	SpriteLineSize = 2 * TileLineSize
	BlockLineSize  = 4 * TileLineSize

	// Total sizes in bytes.
	TileSize   = TileLineSize * TilePixels
	SpriteSize = SpriteLineSize * SpritePixels
	BlockSize  = BlockLineSize * BlockPixels
)

// ErrGeometry indicates image dimensions that do not match the pixel data.
var ErrGeometry = errors.New("invalid image geometry")

// Image2bpp is a 4-shade image.
type Image2bpp struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewImage2bpp returns a blank image. Width must be a multiple of 4.
func NewImage2bpp(width, height int) (*Image2bpp, error) {
	if width%4 != 0 || width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGeometry, width, height)
	}
	stride := width / 4
	return &Image2bpp{Width: width, Height: height, Stride: stride, Pix: make([]byte, stride*height)}, nil
}

// FromData wraps pix as a width x height image without copying.
func FromData(width, height int, pix []byte) (*Image2bpp, error) {
	if width%4 != 0 || width*height/4 != len(pix) {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrGeometry, width, height, len(pix))
	}
	return &Image2bpp{Width: width, Height: height, Stride: width / 4, Pix: pix}, nil
}

// At returns the shade index (0-3) of the pixel at x, y.
func (m *Image2bpp) At(x, y int) uint8 {
	pos := y*m.Stride + (x/8)*2
	shift := 7 - uint(x%8)
	hi := (m.Pix[pos] >> shift) & 1
	lo := (m.Pix[pos+1] >> shift) & 1
	return hi<<1 | lo
}

// HFlip mirrors a sprite-sized (16x16) pixel buffer horizontally in place.
func HFlip(sprite []byte) {
	for row := 0; row+SpriteLineSize <= len(sprite); row += SpriteLineSize {
		r := sprite[row : row+SpriteLineSize]
		r[0], r[1], r[2], r[3] = reverse(r[2]), reverse(r[3]), reverse(r[0]), reverse(r[1])
	}
}

func reverse(b byte) byte {
	b = b>>4 | b<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
