package gfx

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"testing"
)

func TestImageAt(t *testing.T) {
	img, err := NewImage2bpp(8, 1)
	if err != nil {
		t.Fatalf("NewImage2bpp() error = %v", err)
	}
	img.Pix[0] = 0b1000_0001 // high bits
	img.Pix[1] = 0b1100_0000 // low bits

	want := []uint8{3, 1, 0, 0, 0, 0, 0, 2}
	for x, w := range want {
		if got := img.At(x, 0); got != w {
			t.Errorf("At(%d, 0) = %d, want %d", x, got, w)
		}
	}
}

func TestFromDataGeometry(t *testing.T) {
	if _, err := FromData(56, 56, make([]byte, 784)); err != nil {
		t.Errorf("FromData(56, 56) error = %v", err)
	}
	if _, err := FromData(56, 56, make([]byte, 783)); !errors.Is(err, ErrGeometry) {
		t.Errorf("FromData() short buffer error = %v, want %v", err, ErrGeometry)
	}
	if _, err := NewImage2bpp(6, 2); !errors.Is(err, ErrGeometry) {
		t.Errorf("NewImage2bpp(6, 2) error = %v, want %v", err, ErrGeometry)
	}
}

func TestReflow(t *testing.T) {
	// Four 1-byte wide, 2-row patches onto a 2x2 patch surface.
	src := []byte{'A', 'a', 'B', 'b', 'C', 'c', 'D', 'd'}
	dst := make([]byte, 8)
	Reflow(dst, 2, 4, src, 1, 2)

	want := []byte{'A', 'B', 'a', 'b', 'C', 'D', 'c', 'd'}
	if !bytes.Equal(dst, want) {
		t.Errorf("Reflow() = %q, want %q", dst, want)
	}
}

func TestReflowColMajor(t *testing.T) {
	src := []byte{'A', 'B', 'C', 'D'}
	dst := make([]byte, 4)
	ReflowColMajor(dst, 2, 2, src, 1)

	want := []byte{'A', 'C', 'B', 'D'}
	if !bytes.Equal(dst, want) {
		t.Errorf("ReflowColMajor() = %q, want %q", dst, want)
	}
}

func TestTilesTo2x2(t *testing.T) {
	tiles := make([]byte, 4*TileSize)
	for i := range tiles {
		tiles[i] = byte(i / TileSize) // tile number
	}
	sprite := TilesTo2x2(tiles)

	// Row 0 holds tiles 0 and 1, row 8 holds tiles 2 and 3.
	if got := sprite[0:4]; !bytes.Equal(got, []byte{0, 0, 1, 1}) {
		t.Errorf("row 0 = % X, want 00 00 01 01", got)
	}
	if got := sprite[8*SpriteLineSize : 8*SpriteLineSize+4]; !bytes.Equal(got, []byte{2, 2, 3, 3}) {
		t.Errorf("row 8 = % X, want 02 02 03 03", got)
	}
}

func TestHFlip(t *testing.T) {
	sprite := make([]byte, SpriteSize)
	sprite[0], sprite[1], sprite[2], sprite[3] = 0x80, 0x01, 0x00, 0xF0
	HFlip(sprite)

	want := []byte{0x00, 0x0F, 0x01, 0x80}
	if !bytes.Equal(sprite[:4], want) {
		t.Errorf("HFlip() row 0 = % X, want % X", sprite[:4], want)
	}
}

func TestToRGBA(t *testing.T) {
	img, _ := NewImage2bpp(8, 1)
	img.Pix[0], img.Pix[1] = 0xFF, 0xFF
	rgba := img.ToRGBA()

	if got := rgba.RGBAAt(0, 0); got != palettes[KindDefault][3] {
		t.Errorf("pixel = %v, want %v", got, palettes[KindDefault][3])
	}
}

func TestOverlayKeepsTransparent(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, SpritePixels, SpritePixels))
	sprite, _ := NewImage2bpp(SpritePixels, SpritePixels)
	sprite.Pix[1] = 0x80 // pixel (0,0) shade 1

	Overlay(dst, sprite, 0, 0, KindEntity)
	if got := dst.RGBAAt(0, 0); got != palettes[KindEntity][1] {
		t.Errorf("overlay pixel = %v, want %v", got, palettes[KindEntity][1])
	}
	if got := dst.RGBAAt(1, 0); got.A != 0 {
		t.Errorf("transparent pixel was painted: %v", got)
	}
}

func TestScaleAndSave(t *testing.T) {
	img, _ := NewImage2bpp(8, 8)
	scaled := Scale(img.ToRGBA(), 3)
	if b := scaled.Bounds(); b.Dx() != 24 || b.Dy() != 24 {
		t.Errorf("Scale() bounds = %v, want 24x24", b)
	}

	path := filepath.Join(t.TempDir(), "sub", "out.png")
	if err := SavePNG(path, scaled); err != nil {
		t.Errorf("SavePNG() error = %v", err)
	}
}
