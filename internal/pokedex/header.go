package pokedex

import "github.com/richardwooding/pokerom/internal/rom"

// HeaderSize is the byte size of a creature header.
const HeaderSize = 28

// Header is the base data record of a creature.
type Header struct {
	DexID        uint8
	HP           uint8
	Attack       uint8
	Defense      uint8
	Speed        uint8
	Special      uint8
	Types        [2]uint8
	CaptureRate  uint8
	BaseExp      uint8
	FrontDim     uint8
	FrontAddr    uint16
	BackAddr     uint16
	InitialMoves [4]uint8
	GrowthRate   uint8
	Machines     [8]uint8 // TM/HM bitfield, TM01 is bit 0 of byte 0
}

// Decode implements rom.Record.
func (h *Header) Decode(r *rom.Reader) {
	h.DexID = r.ReadU8()
	h.HP = r.ReadU8()
	h.Attack = r.ReadU8()
	h.Defense = r.ReadU8()
	h.Speed = r.ReadU8()
	h.Special = r.ReadU8()
	copy(h.Types[:], r.ReadBytes(2))
	h.CaptureRate = r.ReadU8()
	h.BaseExp = r.ReadU8()
	h.FrontDim = r.ReadU8()
	h.FrontAddr = r.ReadU16()
	h.BackAddr = r.ReadU16()
	copy(h.InitialMoves[:], r.ReadBytes(4))
	h.GrowthRate = r.ReadU8()
	copy(h.Machines[:], r.ReadBytes(8))
}

// Size implements rom.Record.
func (*Header) Size() int { return HeaderSize }

// learnsMachine reports whether bit i of the machine bitfield is set.
func (h *Header) learnsMachine(i int) bool {
	return h.Machines[i/8]&(1<<(i%8)) != 0
}
