package romtest

import (
	"fmt"
	"strings"

	"github.com/richardwooding/pokerom/internal/rom"
)

// Layout constants of the synthetic game built by Game.
const (
	GameBanks = 64

	// GameMaps is the number of maps reachable from map 0.
	GameMaps = 4
	// GameTrainerClasses is the number of trainer headers written.
	GameTrainerClasses = 3

	// PicOffset is where every picture is stored, in every picture bank.
	PicOffset = 0x7000
)

// Fixed addresses of the cartridge layout, duplicated here so the fixture
// does not depend on the packages it is used to test.
var (
	namePointers      = rom.NewAddr(0x00, 0x375d)
	mapHeaderBanks    = rom.NewAddr(0x03, 0x423d)
	mapHeaderPointers = rom.NewAddr(0x00, 0x01ae)
	mapTilesets       = rom.NewAddr(0x03, 0x47be)
	mapEntityDecals   = rom.NewAddr(0x05, 0x7b27)
	mapHiddens        = rom.NewAddr(0x11, 0x6a40)
	mapWildTables     = rom.NewAddr(0x03, 0x4eeb)
	wildProbabilities = rom.NewAddr(0x04, 0x7918)
	dexOrder          = rom.NewAddr(0x10, 0x5024)
	creatureHeaders   = rom.NewAddr(0x0e, 0x43de)
	mewHeader         = rom.NewAddr(0x01, 0x425b)
	creatureTypes     = rom.NewAddr(0x09, 0x7dae)
	dexDetails        = rom.NewAddr(0x10, 0x447e)
	creatureEvents    = rom.NewAddr(0x0e, 0x705c)
	tmhmMoves         = rom.NewAddr(0x04, 0x7773)
	trainerParties    = rom.NewAddr(0x0e, 0x5d3b)
	trainerHeaders    = rom.NewAddr(0x0e, 0x5914)
)

// Picture banks used by creatures 1-151 in dex order, and by trainers.
var picBanks = []uint8{0x01, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x13}

// Names used by the fixture.
var (
	MoveNames    = []string{"POUND", "KARATE CHOP", "DOUBLE SLAP"}
	ItemNames    = []string{"MASTER BALL", "ULTRA BALL", "GREAT BALL", "MOON STONE"}
	TrainerNames = []string{"YOUNGSTER", "BUG CATCHER", "LASS"}
	TypeNames    = []string{"NORMAL", "FIRE"}
)

// CreatureName returns the fixture name of a creature.
func CreatureName(dexID int) string {
	return fmt.Sprintf("MON%03d", dexID)
}

// SpriteBits is a 1x1 tile compressed picture: plane A raw 0xFF, encoding 1,
// plane B a single zero run.
const SpriteBits = "0" + "1" + "11111111111111111111111111111111" +
	"11111111111111111111111111111111" + "10" + "0" + "11110" + "00001"

// Sprite returns a compressed picture: a dimension byte then bits packed
// MSB first.
func Sprite(dim byte, bits string) []byte {
	bits = strings.ReplaceAll(bits, " ", "")
	out := make([]byte, 1+(len(bits)+7)/8)
	out[0] = dim
	for i, c := range bits {
		if c == '1' {
			out[1+i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Game returns an image holding a small but complete game: 151 creatures,
// three trainer classes, wild encounters and four maps.
//
// Maps: 0 is the root (2x2 blocks) with map 1 (2x1) to the north and map 2
// (1x2) to the east; its warp leads to interior map 3 (1x1), which warps to
// map 2 and to both sentinel ids.
func Game() *Image {
	m := New(GameBanks, "POKEMON RED")
	pic := Sprite(0x11, SpriteBits)
	for _, bank := range picBanks {
		m.Put(rom.NewAddr(bank, PicOffset), pic...)
	}

	putNames(m)
	putCreatures(m)
	putTrainers(m)
	putWild(m)
	putMaps(m)
	return m
}

func putPacked(m *Image, addr rom.Addr, names []string) {
	var b []byte
	for _, n := range names {
		b = append(b, Encode(n)...)
		b = append(b, 0x50)
	}
	m.Put(addr, b...)
}

func putNames(m *Image) {
	// Index 0 creatures (bank 07), 1 moves (2c), 3 items (01), 6 trainers (0e).
	m.PutU16(namePointers, 0x4000, 0x4000, 0, 0x4000, 0, 0, 0x7c00)

	for dex := 1; dex <= 151; dex++ {
		name := append(Encode(CreatureName(dex)), 0x50)
		m.Put(rom.NewAddr(0x07, 0x4000+uint16(10*(dex-1))), name...)
	}
	putPacked(m, rom.NewAddr(0x2c, 0x4000), MoveNames)
	putPacked(m, rom.NewAddr(0x01, 0x4000), ItemNames)
	putPacked(m, rom.NewAddr(0x0e, 0x7c00), TrainerNames)
}

func creatureHeader(dex int) []byte {
	h := make([]byte, 28)
	h[0] = byte(dex)
	h[1], h[2], h[3], h[4], h[5] = 45, 49, 49, 45, 65
	h[6], h[7] = 0, byte(dex%2) // NORMAL, then FIRE for odd ids
	h[8], h[9] = 45, 64
	h[10] = 0x11
	h[11], h[12] = PicOffset&0xff, PicOffset>>8
	h[13], h[14] = PicOffset&0xff, PicOffset>>8
	h[15] = 1 // POUND
	h[19] = 0 // medium fast
	h[20] = 0x01
	return h
}

func putCreatures(m *Image) {
	// Identity order: ROM id n is dex number n.
	for i := range 190 {
		m.Put(rom.NewAddr(dexOrder.Bank, dexOrder.Offset+uint16(i)), byte(i+1))
	}
	for dex := 1; dex <= 150; dex++ {
		m.Put(rom.NewAddr(creatureHeaders.Bank, creatureHeaders.Offset+uint16(28*(dex-1))), creatureHeader(dex)...)
	}
	m.Put(mewHeader, creatureHeader(151)...)

	// Dex entries all share one record with a far description.
	for i := range 151 {
		m.PutU16(rom.NewAddr(dexDetails.Bank, dexDetails.Offset+uint16(2*i)), 0x6000)
	}
	entry := append(Encode("SEED"), 0x50, 2, 4, 150, 0, 0x17, 0x00, 0x61, 0x10)
	m.Put(rom.NewAddr(0x10, 0x6000), entry...)
	m.Put(rom.NewAddr(0x10, 0x6100), append(append([]byte{0x00}, Encode("A strange seed")...), 0x5f)...)

	m.PutU16(creatureTypes, 0x7e00, 0x7e10)
	putPacked(m, rom.NewAddr(0x09, 0x7e00), TypeNames[:1])
	putPacked(m, rom.NewAddr(0x09, 0x7e10), TypeNames[1:])

	// Events: level 16 evolution into ROM id 2, stone evolution into 3,
	// then learns KARATE CHOP at 7.
	for i := range 151 {
		m.PutU16(rom.NewAddr(creatureEvents.Bank, creatureEvents.Offset+uint16(2*i)), 0x7200)
	}
	m.Put(rom.NewAddr(0x0e, 0x7200), 1, 16, 2, 2, 4, 1, 3, 0, 7, 2, 0)

	// TM01 teaches DOUBLE SLAP.
	m.Put(tmhmMoves, 3)
}

func putTrainers(m *Image) {
	for i := range GameTrainerClasses {
		h := []byte{PicOffset & 0xff, PicOffset >> 8, 0, byte(0x15 + 0x10*i), 0}
		m.Put(rom.NewAddr(trainerHeaders.Bank, trainerHeaders.Offset+uint16(5*i)), h...)
		m.PutU16(rom.NewAddr(trainerParties.Bank, trainerParties.Offset+uint16(2*i)), 0x7a00)
	}
	// Set 1: two members at level 5. Set 2: per member levels.
	m.Put(rom.NewAddr(0x0e, 0x7a00), 5, 16, 19, 0, 0xff, 10, 25, 12, 26, 0)
}

func putWild(m *Image) {
	thresholds := []byte{50, 101, 140, 165, 190, 215, 228, 241, 252, 255}
	for i, v := range thresholds {
		m.Put(rom.NewAddr(wildProbabilities.Bank, wildProbabilities.Offset+uint16(2*i)), v, byte(2*i))
	}
	// Map 0 has grass encounters, the others none.
	m.PutU16(mapWildTables, 0x6000, 0x6100, 0x6100, 0x6100)
	grass := []byte{25}
	for i := range 10 {
		grass = append(grass, 3, byte(16+i%2))
	}
	m.Put(rom.NewAddr(0x03, 0x6000), append(grass, 0)...)
	m.Put(rom.NewAddr(0x03, 0x6100), 0, 0)
}

// mapBank holds the headers, objects, blocks and texts of every map.
const mapBank = 0x12

type testMap struct {
	w, h        byte
	connect     byte
	connections [][]byte
	objects     []byte
	blocks      []byte
	texts       [][]byte
}

func connection(id, yAlign, xAlign byte) []byte {
	return []byte{id, 0, 0, 0, 0, 0, 0, yAlign, xAlign, 0, 0}
}

func putMaps(m *Image) {
	maps := []testMap{
		{
			w: 2, h: 2, connect: 0x09, // north, east
			connections: [][]byte{connection(1, 1, 0), connection(2, 0, 0)},
			objects: []byte{
				0x0b,
				1, 3, 2, 0, 3, // warp at (2,3) to map 3
				1, 1, 1, 5, // sign at (1,1), text 5
				4,
				1, 4, 4, 0xff, 0xd0, 1, // person at (0,0)
				2, 5, 6, 0xfe, 0x00, 0x42, 0xca, 1, // trainer class 1 at (2,1)
				3, 6, 4, 0xff, 0xff, 0x83, 1, // item at (0,2)
				4, 7, 7, 0xff, 0xd2, 0x44, 16, 30, // creature at (3,3)
			},
			blocks: []byte{0, 1, 1, 0},
			texts: [][]byte{
				{0x17, 0x10, 0x78, mapBank},
				{0x08},
				{0x08},
				{0x08},
				{0x17, 0x00, 0x78, mapBank},
			},
		},
		{
			w: 2, h: 1, connect: 0x04, // south
			connections: [][]byte{connection(0, 0, 0)},
			objects:     []byte{0x0b, 0, 0, 0},
			blocks:      []byte{1, 1},
		},
		{
			w: 1, h: 2, connect: 0x02, // west
			connections: [][]byte{connection(0, 0, 3)},
			objects:     []byte{0x0b, 0, 0, 0},
			blocks:      []byte{0, 0},
		},
		{
			w: 1, h: 1,
			objects: []byte{
				0x0b,
				3,
				7, 2, 0, 0xff,
				7, 3, 0, 0xed,
				0, 0, 0, 2, // warp back into map 2
				0, 0,
			},
			blocks: []byte{1},
		},
	}

	next := uint16(0x4000)
	alloc := func(b []byte) uint16 {
		at := next
		m.Put(rom.NewAddr(mapBank, at), b...)
		next += uint16(len(b))
		return at
	}

	for id, mp := range maps {
		blocks := alloc(mp.blocks)
		var ptrs []byte
		for range mp.texts {
			ptrs = append(ptrs, 0, 0)
		}
		textTable := alloc(ptrs)
		for i, t := range mp.texts {
			m.PutU16(rom.NewAddr(mapBank, textTable+uint16(2*i)), alloc(t))
		}
		objects := alloc(mp.objects)

		header := []byte{0, mp.h, mp.w, byte(blocks), byte(blocks >> 8), byte(textTable), byte(textTable >> 8), 0, 0, mp.connect}
		for _, c := range mp.connections {
			header = append(header, c...)
		}
		header = append(header, byte(objects), byte(objects>>8))
		at := alloc(header)

		m.Put(rom.NewAddr(mapHeaderBanks.Bank, mapHeaderBanks.Offset+uint16(id)), mapBank)
		m.PutU16(rom.NewAddr(mapHeaderPointers.Bank, mapHeaderPointers.Offset+uint16(2*id)), at)
	}

	// Texts behind far pointers.
	m.Put(rom.NewAddr(mapBank, 0x7800), append(append([]byte{0x00}, Encode("WELCOME")...), 0x57)...)
	m.Put(rom.NewAddr(mapBank, 0x7810), append(append([]byte{0x00}, Encode("Hello")...), 0x57)...)

	// Tileset 0: block 0 is blank, block 1 is fully dark.
	m.Put(mapTilesets, 0x14, 0x00, 0x40, 0x00, 0x50, 0x00, 0x60, 0, 0, 0, 0, 0)
	block1 := make([]byte, 16)
	for i := range block1 {
		block1[i] = 1
	}
	m.Put(rom.NewAddr(0x14, 0x4010), block1...)
	dark := make([]byte, 16)
	for i := range dark {
		dark[i] = 0xff
	}
	m.Put(rom.NewAddr(0x14, 0x5010), dark...)

	// Decals: every picture id uses the same six frames of shade 1.
	for i := range 4 {
		m.Put(rom.NewAddr(mapEntityDecals.Bank, mapEntityDecals.Offset+uint16(4*i)), 0x00, 0x40, 0x0c, 0x15)
	}
	frames := make([]byte, 6*64)
	for i := 1; i < len(frames); i += 2 {
		frames[i] = 0xff
	}
	m.Put(rom.NewAddr(0x15, 0x4000), frames...)

	// Hidden objects on map 0: an item and coins.
	m.Put(mapHiddens, 0x00, 0xff, 0x00, 0x6b)
	m.Put(rom.NewAddr(mapHiddens.Bank, 0x6b00),
		0, 3, 2, 0x1d, 0x88, 0x66, // ULTRA BALL at (3,0)
		3, 1, 10, 0x1d, 0x99, 0x67, // 10 coins at (1,3)
		0xff)
}
