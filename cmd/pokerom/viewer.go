package main

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/cartridge"
	"github.com/richardwooding/pokerom/internal/config"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/maps"
)

// Viewport size in pixels, ten by nine 16x16 squares like the game screen.
const (
	viewWidth  = 10 * gfx.SpritePixels
	viewHeight = 9 * gfx.SpritePixels
	scrollStep = 4
)

// overworldID selects the overworld picture instead of a single map.
const overworldID = -1

// ViewCmd opens a window on a map picture.
type ViewCmd struct {
	ROM   string `arg:"" type:"existingfile" help:"Path to ROM file."`
	Map   int    `help:"Map id to show, the overworld when omitted." default:"-1"`
	Scale int    `help:"Display scale factor (1-10)." default:"3"`
}

// Run executes the view command.
func (c *ViewCmd) Run(logger *log.Logger) error {
	if err := config.CheckScale(c.Scale); err != nil {
		return err
	}
	img, err := cartridge.Load(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to load cartridge: %w", err)
	}
	world, err := maps.Load(img.Data(), logger)
	if err != nil {
		return err
	}

	pic, title, err := pickPicture(world, c.Map)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("pokerom - " + title)
	ebiten.SetWindowSize(viewWidth*c.Scale, viewHeight*c.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(NewViewer(pic)); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}
	return nil
}

func pickPicture(world *maps.World, id int) (image.Image, string, error) {
	if id == overworldID {
		return world.Overworld(), "overworld", nil
	}
	if id < 0 || id >= maps.MaxMaps || world.Maps[id] == nil {
		return nil, "", fmt.Errorf("map 0x%02x was not reached from map 0", id)
	}
	return world.Maps[id].Pic, fmt.Sprintf("map 0x%02x", id), nil
}

// Viewer implements the Ebiten game interface for a scrollable picture.
type Viewer struct {
	pic    *ebiten.Image
	bounds image.Rectangle
	x, y   int
}

// NewViewer creates a viewer over pic.
func NewViewer(pic image.Image) *Viewer {
	return &Viewer{
		pic:    ebiten.NewImageFromImage(pic),
		bounds: pic.Bounds(),
	}
}

// scrollKeys maps the arrow keys to scroll deltas.
var scrollKeys = []struct {
	key    ebiten.Key
	dx, dy int
}{
	{ebiten.KeyArrowUp, 0, -scrollStep},
	{ebiten.KeyArrowDown, 0, scrollStep},
	{ebiten.KeyArrowLeft, -scrollStep, 0},
	{ebiten.KeyArrowRight, scrollStep, 0},
}

// Update scrolls the view with the arrow keys.
func (v *Viewer) Update() error {
	v.poll(ebiten.IsKeyPressed)
	return nil
}

// poll applies the scroll of every pressed arrow key.
func (v *Viewer) poll(pressed func(ebiten.Key) bool) {
	for _, k := range scrollKeys {
		if pressed(k.key) {
			v.scroll(k.dx, k.dy)
		}
	}
}

// scroll moves the view, keeping it inside the picture.
func (v *Viewer) scroll(dx, dy int) {
	v.x = clamp(v.x+dx, 0, max(0, v.bounds.Dx()-viewWidth))
	v.y = clamp(v.y+dy, 0, max(0, v.bounds.Dy()-viewHeight))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Draw draws the visible part of the picture.
func (v *Viewer) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(-v.x), float64(-v.y))
	screen.DrawImage(v.pic, op)
}

// Layout returns the viewport size.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return viewWidth, viewHeight
}
