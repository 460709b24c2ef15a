// Package pokedex loads the creature data: base stats, names, dex entries,
// moves, evolutions and pictures.
package pokedex

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/sprite"
	"github.com/richardwooding/pokerom/internal/text"
)

// Counts of creatures in the main header table and in total.
const (
	TableCount = 150
	Count      = 151
	nameSize   = 10
	// machineCount covers TM01-TM50 and HM01-HM05.
	machineCount = 55
	firstMachine = 201
)

var (
	// ErrUnknownCreature indicates a dex or ROM id with no mapping.
	ErrUnknownCreature = errors.New("unknown creature")

	// ErrHeaderOrder indicates a header table that is not in dex order.
	ErrHeaderOrder = errors.New("creature headers out of order")

	// ErrGrowthRate indicates an unknown growth rate code.
	ErrGrowthRate = errors.New("unknown growth rate")

	// ErrEvolution indicates a malformed evolution entry.
	ErrEvolution = errors.New("malformed evolution")
)

var growthRates = map[uint8]string{
	0: "Medium Fast",
	3: "Medium Slow",
	4: "Fast",
	5: "Slow",
}

// LevelEvolution evolves at a given level.
type LevelEvolution struct {
	DexID uint8 `json:"pkmn_id"`
	Level uint8 `json:"level"`
}

// StoneEvolution evolves when an evolution stone is used.
type StoneEvolution struct {
	DexID uint8  `json:"pkmn_id"`
	Stone string `json:"stone"`
}

// TradeEvolution evolves when traded.
type TradeEvolution struct {
	DexID uint8 `json:"pkmn_id"`
}

// Evolution describes how a creature evolves. Exactly one field is set and
// the JSON form is keyed by it.
type Evolution struct {
	Level    *LevelEvolution `json:"Level,omitempty"`
	Stone    *StoneEvolution `json:"Stone,omitempty"`
	Exchange *TradeEvolution `json:"Exchange,omitempty"`
}

// Move is a learnable move. Level 0 marks an initial move.
type Move struct {
	Level uint8
	Name  string
}

// MarshalJSON encodes the move as [level, name].
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{m.Level, m.Name})
}

// Machine is a move taught by a TM or HM.
type Machine struct {
	Move string
	Item string
}

// MarshalJSON encodes the machine as [move, item].
func (m Machine) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{m.Move, m.Item})
}

// Info is the exported description of a creature.
type Info struct {
	DexID       uint8       `json:"dex_id"`
	Name        string      `json:"name"`
	Species     string      `json:"species_name"`
	Types       []string    `json:"types"`
	Height      string      `json:"height"`
	Weight      string      `json:"weight"`
	Description string      `json:"desc"`
	HP          uint8       `json:"hp"`
	Attack      uint8       `json:"atk"`
	Defense     uint8       `json:"def"`
	Speed       uint8       `json:"spd"`
	Special     uint8       `json:"spe"`
	CaptureRate uint8       `json:"cap"`
	BaseExp     uint8       `json:"exp"`
	Moves       []Move      `json:"attacks"`
	GrowthRate  string      `json:"growth_rate"`
	Evolutions  []Evolution `json:"evolutions"`
	Machines    []Machine   `json:"tmhm"`
	FrontPath   string      `json:"sprite_front_path"`
	BackPath    string      `json:"sprite_back_path"`
}

// Creature is a loaded creature with its pictures.
type Creature struct {
	Info  Info
	Front *gfx.Image2bpp
	Back  *gfx.Image2bpp
}

// Pokedex holds every creature in dex order.
type Pokedex struct {
	Creatures []*Creature
}

// Load decodes the 150 creatures of the header table followed by Mew.
func Load(data []byte, logger *log.Logger) (*Pokedex, error) {
	dex := &Pokedex{Creatures: make([]*Creature, 0, Count)}

	headers, err := rom.NewTable[Header](data, addresses.CreatureHeads).Take(TableCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read creature headers: %w", err)
	}
	r := rom.NewReader(data, addresses.MewHeader)
	mew := rom.ReadRecord[Header](r)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Mew header: %w", err)
	}
	headers = append(headers, mew)

	for i, h := range headers {
		if int(h.DexID) != i+1 {
			return nil, fmt.Errorf("%w: entry %d has dex id %d", ErrHeaderOrder, i, h.DexID)
		}
		c, err := loadCreature(data, &h)
		if err != nil {
			return nil, fmt.Errorf("creature %d: %w", h.DexID, err)
		}
		logger.Debug("Loaded creature", log.Int("dex_id", int(h.DexID)), log.String("name", c.Info.Name))
		dex.Creatures = append(dex.Creatures, c)
	}
	return dex, nil
}

// RomToDex converts an internal (1 based) creature id to its dex number.
func RomToDex(data []byte, romID uint8) (uint8, error) {
	if romID == 0 {
		return 0, fmt.Errorf("%w: rom id 0", ErrUnknownCreature)
	}
	v, err := rom.NewTable[rom.U8](data, addresses.DexOrder).EntryAt(int(romID) - 1)
	return uint8(v), err
}

// DexToRom converts a dex number to the internal (1 based) creature id by
// scanning the order table.
func DexToRom(data []byte, dexID uint8) (uint8, error) {
	r := rom.NewReader(data, addresses.DexOrder)
	for romID := 1; romID < rom.MaxTableEntries; romID++ {
		v := r.ReadU8()
		if err := r.Err(); err != nil {
			return 0, err
		}
		if v == dexID {
			return uint8(romID), nil
		}
	}
	return 0, fmt.Errorf("%w: dex id %d", ErrUnknownCreature, dexID)
}

func loadCreature(data []byte, h *Header) (*Creature, error) {
	romID, err := DexToRom(data, h.DexID)
	if err != nil {
		return nil, err
	}
	info, err := loadInfo(data, h, romID)
	if err != nil {
		return nil, err
	}

	bank := addresses.PicBank(romID)
	front, err := sprite.Decode(rom.NewReader(data, rom.NewAddr(bank, h.FrontAddr)))
	if err != nil {
		return nil, fmt.Errorf("front picture: %w", err)
	}
	back, err := sprite.Decode(rom.NewReader(data, rom.NewAddr(bank, h.BackAddr)))
	if err != nil {
		return nil, fmt.Errorf("back picture: %w", err)
	}
	return &Creature{Info: *info, Front: front, Back: back}, nil
}

func loadInfo(data []byte, h *Header, romID uint8) (*Info, error) {
	info := &Info{
		DexID:       h.DexID,
		HP:          h.HP,
		Attack:      h.Attack,
		Defense:     h.Defense,
		Speed:       h.Speed,
		Special:     h.Special,
		CaptureRate: h.CaptureRate,
		BaseExp:     h.BaseExp,
	}

	name, err := loadName(data, romID)
	if err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	info.Name = name
	info.FrontPath = fmt.Sprintf("pkmn/pkmn-front-%03d-%s.png", h.DexID, name)
	info.BackPath = fmt.Sprintf("pkmn/pkmn-back-%03d-%s.png", h.DexID, name)

	if err := loadDexEntry(data, romID, info); err != nil {
		return nil, fmt.Errorf("dex entry: %w", err)
	}
	if info.Types, err = loadTypes(data, h.Types); err != nil {
		return nil, fmt.Errorf("types: %w", err)
	}

	rate, ok := growthRates[h.GrowthRate]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrGrowthRate, h.GrowthRate)
	}
	info.GrowthRate = rate

	moveNames, err := addresses.NamePointer(data, addresses.MoveNames)
	if err != nil {
		return nil, err
	}
	for _, id := range h.InitialMoves {
		if id == 0 {
			break
		}
		name, err := text.Packed(data, moveNames, id)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", id, err)
		}
		info.Moves = append(info.Moves, Move{Name: name})
	}

	if err := loadEvents(data, romID, moveNames, info); err != nil {
		return nil, err
	}
	if info.Machines, err = loadMachines(data, h, moveNames); err != nil {
		return nil, fmt.Errorf("machines: %w", err)
	}
	return info, nil
}

// loadName reads the fixed 10 byte name of a creature.
func loadName(data []byte, romID uint8) (string, error) {
	addr, err := addresses.NamePointer(data, addresses.CreatureNames)
	if err != nil {
		return "", err
	}
	b, err := rom.NewSlicer(data, addr, nameSize).SliceAt(int(romID) - 1)
	if err != nil {
		return "", err
	}
	return text.Fixed(b, nameSize)
}

// loadDexEntry reads the species, size and description. Entries are
// variable sized, so they are reached through a pointer table.
func loadDexEntry(data []byte, romID uint8, info *Info) error {
	ptr, err := rom.NewTable[rom.U16](data, addresses.DexDetails).EntryAt(int(romID) - 1)
	if err != nil {
		return err
	}
	r := rom.NewReader(data, rom.NewAddr(addresses.DexDetails.Bank, uint16(ptr)))
	if info.Species, err = text.Text(r); err != nil {
		return err
	}
	feet := r.ReadU8()
	inches := r.ReadU8()
	pounds := r.ReadU16() // tenths
	if err := r.Err(); err != nil {
		return err
	}
	info.Height = fmt.Sprintf("%d'%02d\"", feet, inches)
	info.Weight = fmt.Sprintf("%d.%dlb", pounds/10, pounds%10)
	info.Description, err = text.Command(r)
	return err
}

func loadTypes(data []byte, types [2]uint8) ([]string, error) {
	table := rom.NewTable[rom.U16](data, addresses.CreatureTypes)
	ids := types[:1]
	if types[1] != types[0] {
		ids = types[:]
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		ptr, err := table.EntryAt(int(id))
		if err != nil {
			return nil, err
		}
		name, err := text.Text(rom.NewReader(data, rom.NewAddr(addresses.CreatureTypes.Bank, uint16(ptr))))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// loadEvents reads the evolutions then the level-up learnset. Both lists are
// zero terminated and stored back to back.
func loadEvents(data []byte, romID uint8, moveNames rom.Addr, info *Info) error {
	ptr, err := rom.NewTable[rom.U16](data, addresses.CreatureEvent).EntryAt(int(romID) - 1)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	r := rom.NewReader(data, rom.NewAddr(addresses.CreatureEvent.Bank, uint16(ptr)))

	for i := 0; ; i++ {
		if i == rom.MaxTableEntries {
			return fmt.Errorf("evolutions at %s: %w", r.Addr(), rom.ErrUnterminated)
		}
		kind := r.ReadU8()
		if kind == 0 {
			break
		}
		evo, err := readEvolution(data, r, kind)
		if err != nil {
			return err
		}
		info.Evolutions = append(info.Evolutions, evo)
	}

	for i := 0; ; i++ {
		if i == rom.MaxTableEntries {
			return fmt.Errorf("learnset at %s: %w", r.Addr(), rom.ErrUnterminated)
		}
		level := r.ReadU8()
		if level == 0 {
			break
		}
		id := r.ReadU8()
		if err := r.Err(); err != nil {
			return fmt.Errorf("learnset: %w", err)
		}
		name, err := text.Packed(data, moveNames, id)
		if err != nil {
			return fmt.Errorf("learnset move %d: %w", id, err)
		}
		info.Moves = append(info.Moves, Move{Level: level, Name: name})
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

func readEvolution(data []byte, r *rom.Reader, kind uint8) (Evolution, error) {
	var evo Evolution
	switch kind {
	case 1:
		level := r.ReadU8()
		dexID, err := readTarget(data, r)
		if err != nil {
			return evo, err
		}
		evo.Level = &LevelEvolution{DexID: dexID, Level: level}
	case 2:
		item := r.ReadU8()
		if level := r.ReadU8(); level != 1 {
			return evo, fmt.Errorf("%w: stone evolution with level %d", ErrEvolution, level)
		}
		stone, err := text.ItemName(data, item)
		if err != nil {
			return evo, fmt.Errorf("stone %d: %w", item, err)
		}
		dexID, err := readTarget(data, r)
		if err != nil {
			return evo, err
		}
		evo.Stone = &StoneEvolution{DexID: dexID, Stone: stone}
	case 3:
		if level := r.ReadU8(); level != 1 {
			return evo, fmt.Errorf("%w: trade evolution with level %d", ErrEvolution, level)
		}
		dexID, err := readTarget(data, r)
		if err != nil {
			return evo, err
		}
		evo.Exchange = &TradeEvolution{DexID: dexID}
	default:
		return evo, fmt.Errorf("%w: kind 0x%02x", ErrEvolution, kind)
	}
	return evo, nil
}

// readTarget reads the ROM id of the evolved creature.
func readTarget(data []byte, r *rom.Reader) (uint8, error) {
	target := r.ReadU8()
	if err := r.Err(); err != nil {
		return 0, err
	}
	return RomToDex(data, target)
}

func loadMachines(data []byte, h *Header, moveNames rom.Addr) ([]Machine, error) {
	table := rom.NewTable[rom.U8](data, addresses.TMHMMoves)
	var machines []Machine
	for i := range machineCount {
		if !h.learnsMachine(i) {
			continue
		}
		moveID, err := table.EntryAt(i)
		if err != nil {
			return nil, err
		}
		move, err := text.Packed(data, moveNames, uint8(moveID))
		if err != nil {
			return nil, err
		}
		item, err := text.ItemName(data, uint8(firstMachine+i))
		if err != nil {
			return nil, err
		}
		machines = append(machines, Machine{Move: move, Item: item})
	}
	return machines, nil
}
