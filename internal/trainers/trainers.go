// Package trainers loads trainer classes and their parties.
package trainers

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/pokedex"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/sprite"
	"github.com/richardwooding/pokerom/internal/text"
)

// perMemberLevel marks a party set storing a level before each member.
const perMemberLevel = 0xff

var (
	// ErrMoney indicates base money outside the single BCD byte in use.
	ErrMoney = errors.New("unexpected base money encoding")

	// ErrClassCount indicates a class count the 8-bit ids cannot address.
	ErrClassCount = errors.New("invalid trainer class count")
)

// Header is the per class record: picture pointer and BCD base money.
type Header struct {
	PicAddr uint16
	Money   [3]uint8
}

// Decode implements rom.Record.
func (h *Header) Decode(r *rom.Reader) {
	h.PicAddr = r.ReadU16()
	copy(h.Money[:], r.ReadBytes(3))
}

// Size implements rom.Record.
func (*Header) Size() int { return 5 }

// BaseMoney decodes the money field. Only the middle byte is used by the
// game: cents are always 0 and nothing goes above 99.
func (h *Header) BaseMoney() (uint8, error) {
	if h.Money[0] != 0 || h.Money[2] != 0 {
		return 0, fmt.Errorf("%w: % x", ErrMoney, h.Money)
	}
	m := h.Money[1]
	if m>>4 > 9 || m&0x0f > 9 {
		return 0, fmt.Errorf("%w: % x", ErrMoney, h.Money)
	}
	return (m>>4)*10 + m&0x0f, nil
}

// Member is one creature of a trainer party.
type Member struct {
	Level uint8 `json:"level"`
	DexID uint8 `json:"dex_id"`
}

// Team returns party set setID (1 based) of a trainer class.
func Team(data []byte, classID, setID uint8) ([]Member, error) {
	ptr, err := rom.NewTable[rom.U16](data, addresses.TrainerParties).EntryAt(int(classID))
	if err != nil {
		return nil, err
	}
	r := rom.NewReader(data, rom.NewAddr(addresses.TrainerParties.Bank, uint16(ptr)))

	// Sets are zero terminated and stored back to back.
	for set := 1; set < int(setID); set++ {
		for r.ReadU8() != 0 {
			if r.Err() != nil {
				break
			}
		}
	}

	level := r.ReadU8()
	raw, err := rom.ReadUntil(r, 0)
	if err != nil {
		return nil, fmt.Errorf("party %d of class %d: %w", setID, classID, err)
	}

	var team []Member
	if level != perMemberLevel {
		for _, id := range raw {
			m, err := newMember(data, level, id)
			if err != nil {
				return nil, err
			}
			team = append(team, m)
		}
		return team, nil
	}
	for i := 0; i+1 < len(raw); i += 2 {
		m, err := newMember(data, raw[i], raw[i+1])
		if err != nil {
			return nil, err
		}
		team = append(team, m)
	}
	return team, nil
}

func newMember(data []byte, level, romID uint8) (Member, error) {
	dexID, err := pokedex.RomToDex(data, romID)
	if err != nil {
		return Member{}, err
	}
	return Member{Level: level, DexID: dexID}, nil
}

// Info is the exported description of a trainer class.
type Info struct {
	ID        uint8  `json:"id"`
	Name      string `json:"name"`
	PicPath   string `json:"sprite_path"`
	BaseMoney uint8  `json:"base_money"` // multiplied by the level of the last creature
}

// Class is a trainer class with its picture.
type Class struct {
	Info Info
	Pic  *gfx.Image2bpp
}

// Load decodes the first count trainer classes.
func Load(data []byte, count int, logger *log.Logger) ([]*Class, error) {
	if count <= 0 || count >= rom.MaxTableEntries {
		return nil, fmt.Errorf("%w: %d", ErrClassCount, count)
	}
	headers, err := rom.NewTable[Header](data, addresses.TrainerHeaders).Take(count)
	if err != nil {
		return nil, fmt.Errorf("failed to read trainer headers: %w", err)
	}
	names, err := addresses.NamePointer(data, addresses.TrainerNames)
	if err != nil {
		return nil, err
	}

	classes := make([]*Class, 0, count)
	for i, h := range headers {
		id := uint8(i)
		c, err := loadClass(data, &h, id, names)
		if err != nil {
			return nil, fmt.Errorf("trainer class 0x%02x: %w", id, err)
		}
		logger.Debug("Loaded trainer class", log.Int("id", i), log.String("name", c.Info.Name))
		classes = append(classes, c)
	}
	return classes, nil
}

func loadClass(data []byte, h *Header, id uint8, names rom.Addr) (*Class, error) {
	name, err := text.Packed(data, names, id+1)
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	money, err := h.BaseMoney()
	if err != nil {
		return nil, err
	}
	pic, err := sprite.Decode(rom.NewReader(data, rom.NewAddr(addresses.TrainerPicBank, h.PicAddr)))
	if err != nil {
		return nil, err
	}
	return &Class{
		Info: Info{
			ID:        id,
			Name:      name,
			PicPath:   fmt.Sprintf("trainers/trainer-%02x-%s.png", id, name),
			BaseMoney: money,
		},
		Pic: pic,
	}, nil
}
