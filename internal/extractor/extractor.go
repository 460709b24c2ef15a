// Package extractor decodes the creatures, maps and trainers of a cartridge
// and exports them as pictures and a JSON document.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/cartridge"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/maps"
	"github.com/richardwooding/pokerom/internal/pokedex"
	"github.com/richardwooding/pokerom/internal/trainers"
)

// DataFile is the name of the JSON document written by Export.
const DataFile = "data.json"

// Extractor holds everything decoded from one cartridge.
type Extractor struct {
	img    *cartridge.Image
	logger *log.Logger

	Pokedex  *pokedex.Pokedex
	World    *maps.World
	Trainers []*trainers.Class
}

// Document is the layout of the JSON export.
type Document struct {
	Pokedex   []*pokedex.Info    `json:"pokedex"`
	Maps      []*maps.Info       `json:"maps"`
	Overworld maps.OverworldInfo `json:"overworld"`
	Trainers  []*trainers.Info   `json:"trainers"`
}

// New returns an extractor for a loaded cartridge.
func New(img *cartridge.Image, logger *log.Logger) *Extractor {
	return &Extractor{img: img, logger: logger}
}

// Load decodes the cartridge. Any decode error aborts the load.
func (e *Extractor) Load() error {
	data := e.img.Data()

	dex, err := pokedex.Load(data, e.logger)
	if err != nil {
		return fmt.Errorf("failed to load pokedex: %w", err)
	}
	e.logger.Info("Pokedex loaded", log.Int("creatures", len(dex.Creatures)))

	world, err := maps.Load(data, e.logger)
	if err != nil {
		return fmt.Errorf("failed to load maps: %w", err)
	}

	count, err := world.TrainerCount()
	if err != nil {
		return err
	}
	classes, err := trainers.Load(data, count, e.logger)
	if err != nil {
		return fmt.Errorf("failed to load trainers: %w", err)
	}
	e.logger.Info("Trainers loaded", log.Int("classes", len(classes)))

	e.Pokedex, e.World, e.Trainers = dex, world, classes
	return nil
}

// Document returns the JSON export of the loaded data.
func (e *Extractor) Document() *Document {
	doc := &Document{
		Maps:      e.World.Infos(),
		Overworld: e.World.OverworldInfo(),
	}
	for _, c := range e.Pokedex.Creatures {
		doc.Pokedex = append(doc.Pokedex, &c.Info)
	}
	for _, c := range e.Trainers {
		doc.Trainers = append(doc.Trainers, &c.Info)
	}
	return doc
}

// Export writes every picture and the JSON document under outdir. Pictures
// are enlarged by scale.
func (e *Extractor) Export(ctx context.Context, outdir string, scale int) error {
	save := func(rel string, img image.Image) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(outdir, rel)
		if err := gfx.SavePNG(path, gfx.Scale(img, scale)); err != nil {
			return err
		}
		e.logger.Debug("Saved picture", log.String("path", path))
		return nil
	}

	for _, c := range e.Pokedex.Creatures {
		if err := save(c.Info.FrontPath, c.Front.ToRGBA()); err != nil {
			return err
		}
		if err := save(c.Info.BackPath, c.Back.ToRGBA()); err != nil {
			return err
		}
	}
	for _, m := range e.World.Maps {
		if m == nil {
			continue
		}
		if err := save(m.Info.PicPath, m.Pic); err != nil {
			return err
		}
	}
	if err := save(maps.OverworldPath, e.World.Overworld()); err != nil {
		return err
	}
	for _, c := range e.Trainers {
		if err := save(c.Info.PicPath, c.Pic.ToRGBA()); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(e.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", DataFile, err)
	}
	path := filepath.Join(outdir, DataFile)
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	e.logger.Info("Export complete", log.String("dir", outdir))
	return nil
}
