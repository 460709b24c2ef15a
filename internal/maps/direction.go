package maps

import (
	"errors"
	"fmt"
)

// Direction of a map connection.
type Direction int

// Directions in the order connection records are stored.
const (
	North Direction = iota
	South
	West
	East
)

var directionNames = [...]string{"north", "south", "west", "east"}

func (d Direction) String() string {
	return directionNames[d]
}

// ErrAlignment indicates an alignment value that is not supported for the
// connection direction.
var ErrAlignment = errors.New("unsupported connection alignment")

// Directions returns the directions enabled by a connection bitmask. Bit 3
// enables North and bit 0 East.
func Directions(mask uint8) []Direction {
	var dirs []Direction
	for d := North; d <= East; d++ {
		if mask&(1<<(3-int(d))) != 0 {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Coord is a world position in 16x16 pixel units, 2 per block.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset returns the position of the neighbor reached by a connection in
// direction d from a map of header h at c.
func (c Coord) Offset(d Direction, h *Header, con *Connection) (Coord, error) {
	switch d {
	case North:
		return Coord{X: c.X + int(int8(con.XAlign)), Y: c.Y - (int(con.YAlign) + 1)}, nil
	case South:
		if con.YAlign != 0 {
			return c, fmt.Errorf("%w: %s with y alignment %d", ErrAlignment, d, con.YAlign)
		}
		return Coord{X: c.X + int(int8(con.XAlign)), Y: c.Y + 2*int(h.Height)}, nil
	case West:
		return Coord{X: c.X - (int(con.XAlign) + 1), Y: c.Y + int(int8(con.YAlign))}, nil
	case East:
		if con.XAlign != 0 {
			return c, fmt.Errorf("%w: %s with x alignment %d", ErrAlignment, d, con.XAlign)
		}
		return Coord{X: c.X + 2*int(h.Width), Y: c.Y + int(int8(con.YAlign))}, nil
	}
	return c, fmt.Errorf("invalid direction %d", d)
}

// Bounds is the bounding box of placed maps.
type Bounds struct {
	Min, Max Coord
	empty    bool
}

// NewBounds returns an empty box.
func NewBounds() Bounds {
	return Bounds{empty: true}
}

// Stretch grows the box to contain a map of w x h blocks at pos.
func (b *Bounds) Stretch(pos Coord, w, h uint8) {
	maxX, maxY := pos.X+2*int(w), pos.Y+2*int(h)
	if b.empty {
		b.Min, b.Max, b.empty = pos, Coord{X: maxX, Y: maxY}, false
		return
	}
	b.Min.X = min(b.Min.X, pos.X)
	b.Min.Y = min(b.Min.Y, pos.Y)
	b.Max.X = max(b.Max.X, maxX)
	b.Max.Y = max(b.Max.Y, maxY)
}

// Size returns the box dimensions.
func (b Bounds) Size() (width, height int) {
	if b.empty {
		return 0, 0
	}
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}
