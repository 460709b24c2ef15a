// Package addresses holds the fixed ROM layout of the English Red/Blue
// cartridge.
package addresses

import "github.com/richardwooding/pokerom/internal/rom"

// Maps.
var (
	MapHeaderBanks       = rom.NewAddr(0x03, 0x423d)
	MapHeaderPointers    = rom.NewAddr(0x00, 0x01ae)
	MapTilesets          = rom.NewAddr(0x03, 0x47be)
	MapEntityDecals      = rom.NewAddr(0x05, 0x7b27)
	MapHiddens           = rom.NewAddr(0x11, 0x6a40)
	MapHiddenItemsScript = rom.NewAddr(0x1d, 0x6688)
	MapHiddenCoinsScript = rom.NewAddr(0x1d, 0x6799)
)

// Wild encounters.
var (
	MapWildTables     = rom.NewAddr(0x03, 0x4eeb)
	WildProbabilities = rom.NewAddr(0x04, 0x7918)
)

// Creatures.
var (
	DexOrder      = rom.NewAddr(0x10, 0x5024)
	CreatureHeads = rom.NewAddr(0x0e, 0x43de) // first 150, Mew is elsewhere
	MewHeader     = rom.NewAddr(0x01, 0x425b)
	CreatureTypes = rom.NewAddr(0x09, 0x7dae)
	DexDetails    = rom.NewAddr(0x10, 0x447e)
	CreatureEvent = rom.NewAddr(0x0e, 0x705c) // evolutions and learnsets
	TMHMMoves     = rom.NewAddr(0x04, 0x7773)
)

// Trainers.
var (
	TrainerParties = rom.NewAddr(0x0e, 0x5d3b)
	TrainerHeaders = rom.NewAddr(0x0e, 0x5914)
)

// TrainerPicBank is the bank of every trainer class picture.
const TrainerPicBank = 0x13

// namePointers is a table of bankless pointers to packed name lists.
var namePointers = rom.NewAddr(0x00, 0x375d)

// NameList identifies a packed name list.
type NameList int

// Name lists reachable from the name pointer table.
const (
	CreatureNames NameList = iota
	MoveNames
	ItemNames
	TrainerNames
)

var nameLists = [...]struct {
	index int
	bank  uint8
}{
	CreatureNames: {0, 0x07},
	MoveNames:     {1, 0x2c},
	ItemNames:     {3, 0x01},
	TrainerNames:  {6, 0x0e},
}

// NamePointer returns the address of the first entry of a name list. The
// pointer table does not store banks, they are fixed per list.
func NamePointer(data []byte, list NameList) (rom.Addr, error) {
	l := nameLists[list]
	ptr, err := rom.NewTable[rom.U16](data, namePointers).EntryAt(l.index)
	if err != nil {
		return rom.Addr{}, err
	}
	return rom.NewAddr(l.bank, uint16(ptr)), nil
}

// PicBank returns the bank holding the pictures of a creature, by ROM id.
func PicBank(romID uint8) uint8 {
	switch {
	case romID == 0x15: // Mew
		return 0x01
	case romID == 0xb6: // fossil Kabutops
		return 0x0b
	case romID < 0x1f:
		return 0x09
	case romID < 0x4a:
		return 0x0a
	case romID < 0x74:
		return 0x0b
	case romID < 0x99:
		return 0x0c
	default:
		return 0x0d
	}
}
