package maps

import "github.com/richardwooding/pokerom/internal/rom"

// Header is the fixed part of a map header.
type Header struct {
	Tileset uint8
	Height  uint8 // blocks
	Width   uint8 // blocks
	Blocks  uint16
	Texts   uint16
	Script  uint16
	Connect uint8 // direction bitmask, see Directions
}

// Decode implements rom.Record.
func (h *Header) Decode(r *rom.Reader) {
	h.Tileset = r.ReadU8()
	h.Height = r.ReadU8()
	h.Width = r.ReadU8()
	h.Blocks = r.ReadU16()
	h.Texts = r.ReadU16()
	h.Script = r.ReadU16()
	h.Connect = r.ReadU8()
}

// Size implements rom.Record.
func (*Header) Size() int { return 10 }

// ConnectionCount returns the number of connection records following the
// header.
func (h *Header) ConnectionCount() int {
	n := 0
	for i := range 4 {
		n += int(h.Connect>>i) & 1
	}
	return n
}

// Connection stitches a map to a neighbor.
type Connection struct {
	MapID     uint8
	BlocksSrc uint16
	BlocksDst uint16
	Length    uint8
	Width     uint8
	YAlign    uint8
	XAlign    uint8
	Window    uint16
}

// Decode implements rom.Record.
func (c *Connection) Decode(r *rom.Reader) {
	c.MapID = r.ReadU8()
	c.BlocksSrc = r.ReadU16()
	c.BlocksDst = r.ReadU16()
	c.Length = r.ReadU8()
	c.Width = r.ReadU8()
	c.YAlign = r.ReadU8()
	c.XAlign = r.ReadU8()
	c.Window = r.ReadU16()
}

// Size implements rom.Record.
func (*Connection) Size() int { return 11 }

// Warp is a door to another map.
type Warp struct {
	Y, X   uint8
	ToWarp uint8
	ToMap  uint8
}

// Decode implements rom.Record.
func (w *Warp) Decode(r *rom.Reader) {
	w.Y = r.ReadU8()
	w.X = r.ReadU8()
	w.ToWarp = r.ReadU8()
	w.ToMap = r.ReadU8()
}

// Size implements rom.Record.
func (*Warp) Size() int { return 4 }

// Sign is a readable sign.
type Sign struct {
	Y, X   uint8
	TextID uint8
}

// Decode implements rom.Record.
func (s *Sign) Decode(r *rom.Reader) {
	s.Y = r.ReadU8()
	s.X = r.ReadU8()
	s.TextID = r.ReadU8()
}

// Size implements rom.Record.
func (*Sign) Size() int { return 3 }

// Entity text id flags.
const (
	entityItem    = 1 << 7
	entityFighter = 1 << 6 // trainer or static creature
	entityTextID  = 0x3f
)

// Movement values.
const (
	movementWalking = 0xfe
	movementStill   = 0xff
)

// Entity is a person, trainer, creature or item placed on a map. Its width
// depends on its kind, so it has no Size and is only read sequentially.
type Entity struct {
	PicID       uint8
	Y, X        uint8
	Movement    uint8
	Orientation uint8 // walking pattern or facing direction
	TextID      uint8 // text id and kind flags
	ExtraID     uint8 // item or trainer id
	ExtraNum    uint8 // party set or level
}

// Decode reads one entity.
func (e *Entity) Decode(r *rom.Reader) {
	e.PicID = r.ReadU8()
	e.Y = r.ReadU8()
	e.X = r.ReadU8()
	e.Movement = r.ReadU8()
	e.Orientation = r.ReadU8()
	e.TextID = r.ReadU8()
	e.ExtraID, e.ExtraNum = 0, 0
	if e.TextID&(entityItem|entityFighter) != 0 {
		e.ExtraID = r.ReadU8()
	}
	if e.TextID&entityFighter != 0 {
		e.ExtraNum = r.ReadU8()
	}
}

// Tileset locates the graphics of a map.
type Tileset struct {
	Bank       uint8
	Blocks     uint16
	Tiles      uint16
	Collisions uint16
	Counters   [3]uint8
	Grass      uint8
	Animation  uint8
}

// Decode implements rom.Record.
func (t *Tileset) Decode(r *rom.Reader) {
	t.Bank = r.ReadU8()
	t.Blocks = r.ReadU16()
	t.Tiles = r.ReadU16()
	t.Collisions = r.ReadU16()
	copy(t.Counters[:], r.ReadBytes(3))
	t.Grass = r.ReadU8()
	t.Animation = r.ReadU8()
}

// Size implements rom.Record.
func (*Tileset) Size() int { return 12 }

// EntityDecal locates the walking frames of an entity picture.
type EntityDecal struct {
	Addr  uint16
	Tiles uint8
	Bank  uint8
}

// Decode implements rom.Record.
func (d *EntityDecal) Decode(r *rom.Reader) {
	d.Addr = r.ReadU16()
	d.Tiles = r.ReadU8()
	d.Bank = r.ReadU8()
}

// Size implements rom.Record.
func (*EntityDecal) Size() int { return 4 }

// HiddenEntry is a hidden object. Y is 0xff at the end of a list.
type HiddenEntry struct {
	Y, X uint8
	ID   uint8 // item id, coin count or text id
	Bank uint8
	Addr uint16 // script
}

// Decode implements rom.Record.
func (h *HiddenEntry) Decode(r *rom.Reader) {
	h.Y = r.ReadU8()
	h.X = r.ReadU8()
	h.ID = r.ReadU8()
	h.Bank = r.ReadU8()
	h.Addr = r.ReadU16()
}

// Size implements rom.Record.
func (*HiddenEntry) Size() int { return 6 }
