package maps

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/romtest"
	"github.com/richardwooding/pokerom/internal/trainers"
)

func loadWorld(t *testing.T) *World {
	t.Helper()
	w, err := Load(romtest.Game().Bytes(), log.NewTestLogger(t))
	assert.NoError(t, err)
	return w
}

func TestLoad(t *testing.T) {
	w := loadWorld(t)
	assert.Equal(t, 6, w.Width)
	assert.Equal(t, 6, w.Height)

	infos := w.Infos()
	assert.Len(t, infos, romtest.GameMaps)
	for id, info := range infos {
		assert.NotNil(t, info, "map %d", id)
	}

	m := w.Maps[0].Info
	assert.Equal(t, &Coord{X: 0, Y: 2}, m.Coords)
	assert.Equal(t, "maps/map-00.png", m.PicPath)
	assert.Equal(t, []WarpInfo{{Pos: Position{X: 2, Y: 3}, ToMap: 3}}, m.Warps)
	assert.Equal(t, []SignInfo{{Pos: Position{X: 1, Y: 1}, Text: "WELCOME"}}, m.Signs)
	assert.NotNil(t, m.Wild.Grass)
	assert.Equal(t, uint8(25), m.Wild.Grass.Rate)

	assert.True(t, w.Maps[3].Info.Coords == nil)
	assert.Len(t, w.Maps[3].Info.Warps, 3)
}

func TestEntities(t *testing.T) {
	w := loadWorld(t)
	entities := w.Maps[0].Info.Entities
	assert.Len(t, entities, 4)

	person := entities[0]
	assert.Equal(t, Position{X: 0, Y: 0}, person.Pos)
	assert.Equal(t, &PersonData{Text: "Hello"}, person.Data.Person)

	trainer := entities[1]
	assert.Equal(t, Position{X: 2, Y: 1}, trainer.Pos)
	assert.NotNil(t, trainer.Data.Trainer)
	assert.Equal(t, uint8(1), trainer.Data.Trainer.ClassID)
	assert.Equal(t, []trainers.Member{{Level: 5, DexID: 16}, {Level: 5, DexID: 19}}, trainer.Data.Trainer.Team)
	assert.True(t, trainer.Data.Trainer.Text == nil)

	item := entities[2]
	assert.Equal(t, Position{X: 0, Y: 2}, item.Pos)
	assert.Equal(t, &ItemData{Name: "MASTER BALL"}, item.Data.Item)

	creature := entities[3]
	assert.Equal(t, Position{X: 3, Y: 3}, creature.Pos)
	assert.Equal(t, &CreatureData{DexID: 16, Level: 30}, creature.Data.Creature)
}

func TestEntityJSON(t *testing.T) {
	info := EntityInfo{Pos: Position{X: 1, Y: 2}, Data: EntityData{Person: &PersonData{Text: "Hi"}}}
	b, err := json.Marshal(info)
	assert.NoError(t, err)
	assert.Equal(t, `{"pos":[1,2],"data":{"NormalPeople":{"text":"Hi"}}}`, string(b))
}

func TestEntityPosition(t *testing.T) {
	data := romtest.Game().Bytes()
	e := &Entity{X: 3, Y: 4, TextID: 1}
	_, err := newEntityInfo(data, e, rom.NewAddr(0x12, 0x4000), log.NewTestLogger(t))
	assert.True(t, errors.Is(err, ErrEntityPosition))
}

func TestEntitySpriteErrors(t *testing.T) {
	data := romtest.Game().Bytes()
	tests := []struct {
		name   string
		entity Entity
		want   error
	}{
		{"movement", Entity{PicID: 1, Movement: 0x00, Orientation: 0xd0}, ErrEntityMovement},
		{"orientation", Entity{PicID: 1, Movement: movementStill, Orientation: 0x55}, ErrEntityOrientation},
		{"walking without direction", Entity{PicID: 1, Movement: movementWalking, Orientation: 0xff}, ErrEntityOrientation},
		{"picture id", Entity{PicID: 0, Movement: movementStill, Orientation: 0xd0}, ErrPictureID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := lcg(0)
			_, err := tt.entity.sprite(data, &rng)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestLCG(t *testing.T) {
	rng := lcg(0)
	assert.Equal(t, facingRight, rng.choose(facingDown, facingUp, facingLeft, facingRight))
	assert.Equal(t, lcg(1013904223), rng)
}

func TestHiddens(t *testing.T) {
	data := romtest.Game().Bytes()
	idx, err := LoadHiddenIndex(data)
	assert.NoError(t, err)
	assert.Len(t, idx, 1)

	hiddens, err := idx.Load(data, 0)
	assert.NoError(t, err)
	assert.Len(t, hiddens, 2)
	assert.Equal(t, Position{X: 3, Y: 0}, hiddens[0].Pos)
	assert.Equal(t, "ULTRA BALL", *hiddens[0].Content)
	assert.Equal(t, Position{X: 1, Y: 3}, hiddens[1].Pos)
	assert.Equal(t, "10 coins", *hiddens[1].Content)

	none, err := idx.Load(data, 1)
	assert.NoError(t, err)
	assert.Len(t, none, 0)
}

func TestHiddenFrame(t *testing.T) {
	img := hiddenFrame(shadeHiddenUnknown)
	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 2},
		{15, 0, 2},
		{0, 15, 2},
		{15, 15, 2},
		{0, 7, 2},
		{15, 7, 2},
		{7, 7, 0},
		{1, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, img.At(tt.x, tt.y), "pixel %d,%d", tt.x, tt.y)
	}
}

func TestMapPicture(t *testing.T) {
	w := loadWorld(t)
	pic := w.Maps[0].Pic
	assert.Equal(t, 64, pic.Bounds().Dx())
	assert.Equal(t, 64, pic.Bounds().Dy())

	// Block 1 without marker.
	assert.Equal(t, gfx.PaletteFor(gfx.KindDefault)[3], pic.RGBAAt(40, 4))
	// Sign and warp recolor a blank block.
	assert.Equal(t, gfx.PaletteFor(gfx.KindSign)[0], pic.RGBAAt(20, 20))
	assert.Equal(t, gfx.PaletteFor(gfx.KindWarp)[0], pic.RGBAAt(40, 52))
	// Entity sprites are drawn with shade 1.
	assert.Equal(t, gfx.PaletteFor(gfx.KindEntity)[1], pic.RGBAAt(0, 0))
	// Hidden item frame over block 1.
	assert.Equal(t, gfx.PaletteFor(gfx.KindHidden)[1], pic.RGBAAt(48, 0))
	assert.Equal(t, gfx.PaletteFor(gfx.KindDefault)[3], pic.RGBAAt(52, 4))
}

func TestOverworld(t *testing.T) {
	w := loadWorld(t)
	img := w.Overworld()
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())
	// Map 0 starts at (0,32).
	assert.Equal(t, gfx.PaletteFor(gfx.KindDefault)[3], img.RGBAAt(40, 36))

	info := w.OverworldInfo()
	assert.Equal(t, OverworldInfo{Width: 6, Height: 6, PicPath: OverworldPath}, info)
}

func TestTrainerCount(t *testing.T) {
	w := loadWorld(t)
	n, err := w.TrainerCount()
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = (&World{}).TrainerCount()
	assert.True(t, errors.Is(err, ErrNoTrainers))

	var onlyFirst World
	onlyFirst.Maps[0] = &Map{Trainers: []uint8{0, 0}}
	_, err = onlyFirst.TrainerCount()
	assert.True(t, errors.Is(err, ErrNoTrainers))
}
