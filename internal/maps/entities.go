package maps

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/pokedex"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/text"
	"github.com/richardwooding/pokerom/internal/trainers"
)

// Entities are stored with a 4 block margin.
const entityMargin = 4

// Extra ids of trainers start at this value, lower values are creatures.
const trainerClassBase = 0xc9

// scriptText is the text of entities driven by a script.
const scriptText = "<Script>"

var (
	// ErrEntityPosition indicates an entity inside the map margin.
	ErrEntityPosition = errors.New("entity outside of the map")

	// ErrEntityKind indicates an entity with both item and fighter flags.
	ErrEntityKind = errors.New("conflicting entity flags")

	// ErrEntityMovement indicates an unknown movement byte.
	ErrEntityMovement = errors.New("unknown entity movement")

	// ErrEntityOrientation indicates an unknown orientation byte.
	ErrEntityOrientation = errors.New("unknown entity orientation")

	// ErrTextID indicates a text id of 0.
	ErrTextID = errors.New("text ids start at 1")

	// ErrPictureID indicates an entity picture id of 0.
	ErrPictureID = errors.New("entity picture ids start at 1")
)

// Position is a location in 16x16 pixel units within a map.
type Position struct {
	X, Y uint8
}

// MarshalJSON encodes the position as [x, y].
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint8{p.X, p.Y})
}

// PersonData describes a non fighting character.
type PersonData struct {
	Text string `json:"text"`
}

// TrainerData describes a trainer and the party it fights with.
type TrainerData struct {
	ClassID uint8             `json:"class_id"`
	Team    []trainers.Member `json:"team"`
	Text    *string           `json:"text"`
}

// CreatureData describes a static creature encounter.
type CreatureData struct {
	DexID uint8 `json:"dex_id"`
	Level uint8 `json:"level"`
}

// ItemData describes an item lying on the ground.
type ItemData struct {
	Name string  `json:"name"`
	Text *string `json:"text"`
}

// EntityData holds exactly one entity kind.
type EntityData struct {
	Person   *PersonData   `json:"NormalPeople,omitempty"`
	Trainer  *TrainerData  `json:"Trainer,omitempty"`
	Creature *CreatureData `json:"Pokemon,omitempty"`
	Item     *ItemData     `json:"Item,omitempty"`
}

// EntityInfo is the exported description of an entity.
type EntityInfo struct {
	Pos  Position   `json:"pos"`
	Data EntityData `json:"data"`
}

// mapText reads text id (1 based) from the text pointer table of a map.
func mapText(data []byte, texts rom.Addr, id uint8) (string, error) {
	if id == 0 {
		return "", ErrTextID
	}
	ptr, err := rom.NewTable[rom.U16](data, texts).EntryAt(int(id) - 1)
	if err != nil {
		return "", err
	}
	s, err := text.Command(rom.NewReader(data, rom.NewAddr(texts.Bank, uint16(ptr))))
	if err != nil {
		return "", fmt.Errorf("text %d: %w", id, err)
	}
	return s, nil
}

// newEntityInfo classifies an entity by its text id flags.
func newEntityInfo(data []byte, e *Entity, texts rom.Addr, logger *log.Logger) (EntityInfo, error) {
	var info EntityInfo
	if e.X < entityMargin || e.Y < entityMargin {
		return info, fmt.Errorf("%w: (%d,%d)", ErrEntityPosition, e.X, e.Y)
	}
	info.Pos = Position{X: e.X - entityMargin, Y: e.Y - entityMargin}

	msg, err := mapText(data, texts, e.TextID&entityTextID)
	if err != nil {
		return info, err
	}

	switch {
	case e.TextID&entityItem != 0 && e.TextID&entityFighter != 0:
		return info, fmt.Errorf("%w: text id 0x%02x", ErrEntityKind, e.TextID)

	case e.TextID&entityItem != 0:
		if e.ExtraID == 0 {
			// A few items only run a script.
			logger.Warn("Unknown item",
				log.Int("x", int(info.Pos.X)),
				log.Int("y", int(info.Pos.Y)),
				log.String("text", msg))
			info.Data.Item = &ItemData{Name: "unknown", Text: &msg}
			return info, nil
		}
		name, err := text.ItemName(data, e.ExtraID)
		if err != nil {
			return info, err
		}
		info.Data.Item = &ItemData{Name: name}

	case e.TextID&entityFighter != 0 && e.ExtraID >= trainerClassBase:
		classID := e.ExtraID - trainerClassBase
		team, err := trainers.Team(data, classID, e.ExtraNum)
		if err != nil {
			return info, err
		}
		t := &TrainerData{ClassID: classID, Team: team}
		if msg != scriptText {
			t.Text = &msg
		}
		info.Data.Trainer = t

	case e.TextID&entityFighter != 0:
		dexID, err := pokedex.RomToDex(data, e.ExtraID)
		if err != nil {
			return info, err
		}
		info.Data.Creature = &CreatureData{DexID: dexID, Level: e.ExtraNum}

	default:
		info.Data.Person = &PersonData{Text: msg}
	}
	return info, nil
}

// facing is the orientation of a decal frame.
type facing int

const (
	facingDefault facing = iota // first frame, no direction
	facingDown
	facingUp
	facingLeft
	facingRight // left frame mirrored
)

// Decal frames: still down/up/left, then walking down/up/left.
const (
	frameSize    = 64
	walkingFrame = 3
)

// lcg is the Numerical Recipes linear congruential generator, seeded with
// the map id.
type lcg uint32

func (g *lcg) choose(choices ...facing) facing {
	*g = 1664525*(*g) + 1013904223
	return choices[uint32(*g)%uint32(len(choices))]
}

// sprite returns the map picture of an entity.
func (e *Entity) sprite(data []byte, rng *lcg) (*gfx.Image2bpp, error) {
	var walking bool
	switch e.Movement {
	case movementWalking:
		walking = true
	case movementStill:
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrEntityMovement, e.Movement)
	}

	var f facing
	switch e.Orientation {
	case 0x00:
		f = rng.choose(facingDown, facingUp, facingLeft, facingRight)
	case 0x01:
		f = rng.choose(facingDown, facingUp)
	case 0x02:
		f = rng.choose(facingLeft, facingRight)
	case 0x10, 0xff: // boulder, no direction
		f = facingDefault
	case 0xd0:
		f = facingDown
	case 0xd1:
		f = facingUp
	case 0xd2:
		f = facingLeft
	case 0xd3:
		f = facingRight
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrEntityOrientation, e.Orientation)
	}

	frame := 0
	if walking {
		frame = walkingFrame
	}
	switch f {
	case facingDefault:
		if walking {
			return nil, fmt.Errorf("%w: walking entity without direction", ErrEntityOrientation)
		}
		frame = 0
	case facingDown:
	case facingUp:
		frame++
	case facingLeft, facingRight:
		frame += 2
	}

	if e.PicID == 0 {
		return nil, ErrPictureID
	}
	decal, err := rom.NewTable[EntityDecal](data, addresses.MapEntityDecals).EntryAt(int(e.PicID) - 1)
	if err != nil {
		return nil, err
	}
	tiles, err := rom.NewSlicer(data, rom.NewAddr(decal.Bank, decal.Addr), frameSize).SliceAt(frame)
	if err != nil {
		return nil, fmt.Errorf("picture %d frame %d: %w", e.PicID, frame, err)
	}
	pix := gfx.TilesTo2x2(tiles)
	if f == facingRight {
		gfx.HFlip(pix)
	}
	return gfx.FromData(gfx.SpritePixels, gfx.SpritePixels, pix)
}
