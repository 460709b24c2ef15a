package main

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/cartridge"
	"github.com/richardwooding/pokerom/internal/config"
	"github.com/richardwooding/pokerom/internal/extractor"
	"github.com/richardwooding/pokerom/internal/maps"
	"github.com/richardwooding/pokerom/internal/romtest"
)

// gameROM writes the synthetic game to a temporary file.
func gameROM(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.gb")
	if err := os.WriteFile(path, romtest.Game().Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCmd(t *testing.T) {
	out := t.TempDir()
	cmd := &ExtractCmd{ROM: gameROM(t), Outdir: out, Scale: 2}
	if err := cmd.Run(context.Background(), log.NewTestLogger(t)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, extractor.DataFile)); err != nil {
		t.Errorf("%s not written: %v", extractor.DataFile, err)
	}
	if _, err := os.Stat(filepath.Join(out, maps.OverworldPath)); err != nil {
		t.Errorf("overworld not written: %v", err)
	}
}

func TestExtractCmdInvalidScale(t *testing.T) {
	cmd := &ExtractCmd{ROM: gameROM(t), Outdir: t.TempDir(), Scale: 0}
	if err := cmd.Run(context.Background(), log.NewTestLogger(t)); !errors.Is(err, config.ErrInvalidScale) {
		t.Errorf("Run() error = %v, want %v", err, config.ErrInvalidScale)
	}
}

func TestSpriteCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pic.png")
	cmd := &SpriteCmd{ROM: gameROM(t), Bank: 0x13, Offset: "0x7000", Output: out, Scale: 1}
	if err := cmd.Run(log.NewTestLogger(t)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("picture not written: %v", err)
	}

	cmd.Offset = "0x12345"
	if err := cmd.Run(log.NewTestLogger(t)); !errors.Is(err, ErrInvalidOffset) {
		t.Errorf("Run() error = %v, want %v", err, ErrInvalidOffset)
	}
}

func TestInfoCmd(t *testing.T) {
	if err := (&InfoCmd{ROM: gameROM(t)}).Run(); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestPickPicture(t *testing.T) {
	img, err := cartridge.New(romtest.Game().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	world, err := maps.Load(img.Data(), log.NewTestLogger(t))
	if err != nil {
		t.Fatal(err)
	}

	pic, title, err := pickPicture(world, overworldID)
	if err != nil || title != "overworld" {
		t.Errorf("pickPicture(overworld) = %q, %v", title, err)
	}
	if b := pic.Bounds(); b.Dx() != 96 || b.Dy() != 96 {
		t.Errorf("overworld bounds = %v, want 96x96", b)
	}
	if _, _, err := pickPicture(world, 3); err != nil {
		t.Errorf("pickPicture(3) error = %v", err)
	}
	if _, _, err := pickPicture(world, 0x20); err == nil {
		t.Error("pickPicture(0x20) succeeded for a map that was not reached")
	}
}

func TestViewerScroll(t *testing.T) {
	v := &Viewer{bounds: image.Rect(0, 0, 200, 150)}
	v.scroll(-10, -10)
	if v.x != 0 || v.y != 0 {
		t.Errorf("scroll past origin = (%d,%d), want (0,0)", v.x, v.y)
	}
	v.scroll(1000, 1000)
	if v.x != 200-viewWidth || v.y != 150-viewHeight {
		t.Errorf("scroll past end = (%d,%d), want (%d,%d)", v.x, v.y, 200-viewWidth, 150-viewHeight)
	}
}

func TestViewerPoll(t *testing.T) {
	v := &Viewer{bounds: image.Rect(0, 0, 400, 400)}
	held := map[ebiten.Key]bool{ebiten.KeyArrowDown: true, ebiten.KeyArrowRight: true}
	pressed := func(k ebiten.Key) bool { return held[k] }

	v.poll(pressed)
	v.poll(pressed)
	if v.x != 2*scrollStep || v.y != 2*scrollStep {
		t.Errorf("after two polls = (%d,%d), want (%d,%d)", v.x, v.y, 2*scrollStep, 2*scrollStep)
	}

	held = map[ebiten.Key]bool{ebiten.KeyArrowUp: true, ebiten.KeyArrowDown: true}
	v.poll(pressed)
	if v.y != 2*scrollStep {
		t.Errorf("opposite keys moved y to %d, want %d", v.y, 2*scrollStep)
	}
}
