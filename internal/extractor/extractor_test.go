package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/cartridge"
	"github.com/richardwooding/pokerom/internal/romtest"
)

func loadGame(t *testing.T) *Extractor {
	t.Helper()
	img, err := cartridge.New(romtest.Game().Bytes())
	assert.NoError(t, err)
	e := New(img, log.NewTestLogger(t))
	assert.NoError(t, e.Load())
	return e
}

func TestLoad(t *testing.T) {
	e := loadGame(t)
	assert.Len(t, e.Pokedex.Creatures, 151)
	assert.Len(t, e.Trainers, 2)
	assert.Equal(t, "YOUNGSTER", e.Trainers[0].Info.Name)
	assert.Equal(t, "BUG CATCHER", e.Trainers[1].Info.Name)

	doc := e.Document()
	assert.Len(t, doc.Pokedex, 151)
	assert.Len(t, doc.Maps, romtest.GameMaps)
	assert.Equal(t, 6, doc.Overworld.Width)
}

func TestExport(t *testing.T) {
	e := loadGame(t)
	dir := t.TempDir()
	assert.NoError(t, e.Export(context.Background(), dir, 2))

	for _, rel := range []string{
		"maps/overworld.png",
		"maps/map-00.png",
		"maps/map-03.png",
		"pkmn/pkmn-front-001-MON001.png",
		"pkmn/pkmn-back-151-MON151.png",
		"trainers/trainer-00-YOUNGSTER.png",
		"trainers/trainer-01-BUG CATCHER.png",
	} {
		_, err := os.Stat(filepath.Join(dir, rel))
		assert.NoError(t, err, rel)
	}

	raw, err := os.ReadFile(filepath.Join(dir, DataFile))
	assert.NoError(t, err)
	var doc struct {
		Pokedex   []map[string]any `json:"pokedex"`
		Maps      []map[string]any `json:"maps"`
		Overworld struct {
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			PicPath string `json:"pic_path"`
		} `json:"overworld"`
		Trainers []map[string]any `json:"trainers"`
	}
	assert.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc.Pokedex, 151)
	assert.Len(t, doc.Maps, romtest.GameMaps)
	assert.Equal(t, "maps/overworld.png", doc.Overworld.PicPath)
	assert.True(t, doc.Maps[3]["coords"] == nil)
	assert.Len(t, doc.Trainers, 2)
}

func TestExportCreatureJSON(t *testing.T) {
	e := loadGame(t)
	dir := t.TempDir()
	assert.NoError(t, e.Export(context.Background(), dir, 1))

	raw, err := os.ReadFile(filepath.Join(dir, DataFile))
	assert.NoError(t, err)
	var doc struct {
		Pokedex []struct {
			Attacks    [][2]any                    `json:"attacks"`
			Evolutions []map[string]map[string]any `json:"evolutions"`
			Machines   [][2]string                 `json:"tmhm"`
		} `json:"pokedex"`
	}
	assert.NoError(t, json.Unmarshal(raw, &doc))

	first := doc.Pokedex[0]
	assert.Equal(t, [][2]any{{float64(0), "POUND"}, {float64(7), "KARATE CHOP"}}, first.Attacks)
	assert.Equal(t, []map[string]map[string]any{
		{"Level": {"pkmn_id": float64(2), "level": float64(16)}},
		{"Stone": {"pkmn_id": float64(3), "stone": "MOON STONE"}},
	}, first.Evolutions)
	assert.Equal(t, [][2]string{{"DOUBLE SLAP", "TM01"}}, first.Machines)
}

func TestExportCancelled(t *testing.T) {
	e := loadGame(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Export(ctx, t.TempDir(), 1)
	assert.True(t, errors.Is(err, context.Canceled))
}
