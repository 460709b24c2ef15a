package maps

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/rom"
)

// MaxMaps is the number of map ids.
const MaxMaps = 0xff

// maxDimension keeps block arithmetic within a byte.
const maxDimension = 127

// Reserved map ids that are never decoded.
const (
	elevatorExit  = 0xed
	lastOverworld = 0xff
)

var (
	// ErrMapTooLarge indicates a map wider or higher than 127 blocks.
	ErrMapTooLarge = errors.New("map dimensions too large")

	// ErrConnectionMismatch indicates a direction bitmask that disagrees
	// with the connection records.
	ErrConnectionMismatch = errors.New("connection count mismatch")
)

// Link is a connection with its direction.
type Link struct {
	Direction  Direction
	Connection Connection
}

// Node is a decoded map with its world placement.
type Node struct {
	ID          uint8
	Addr        rom.Addr
	Header      Header
	Connections []Link
	Warps       []Warp
	Signs       []Sign
	Entities    []Entity
	Coord       Coord
	Placed      bool // part of the stitched overworld
}

// Scanner walks the map graph from map 0. Every map is decoded at most once.
type Scanner struct {
	data     []byte
	logger   *log.Logger
	nodes    [MaxMaps]*Node
	followed [MaxMaps]bool
	decoded  int
}

// NewScanner returns a scanner over a cartridge image.
func NewScanner(data []byte, logger *log.Logger) *Scanner {
	return &Scanner{data: data, logger: logger}
}

// Scan decodes every map reachable from map 0. Maps reached through
// connections from map 0 are placed in the world first; warp targets and
// their neighbors are then decoded without a placement.
func (s *Scanner) Scan() error {
	if err := s.place(0, Coord{}); err != nil {
		return err
	}
	if root := s.nodes[0]; root != nil {
		return s.follow(root)
	}
	return nil
}

// Node returns map id, or nil when it was not reached.
func (s *Scanner) Node(id uint8) *Node {
	if int(id) >= MaxMaps {
		return nil
	}
	return s.nodes[id]
}

// Nodes returns the decoded maps in id order.
func (s *Scanner) Nodes() []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Normalize shifts placed maps so the world starts at (0,0) and returns the
// world size.
func (s *Scanner) Normalize() (width, height int) {
	b := NewBounds()
	for _, n := range s.nodes {
		if n != nil && n.Placed {
			b.Stretch(n.Coord, n.Header.Width, n.Header.Height)
		}
	}
	for _, n := range s.nodes {
		if n != nil && n.Placed {
			n.Coord.X -= b.Min.X
			n.Coord.Y -= b.Min.Y
		}
	}
	return b.Size()
}

func isSentinel(id uint8) bool {
	return id == elevatorExit || id == lastOverworld
}

// place decodes map id at pos and places its connected neighbors.
func (s *Scanner) place(id uint8, pos Coord) error {
	if isSentinel(id) || s.nodes[id] != nil {
		return nil
	}
	n, err := s.decode(id)
	if err != nil {
		return err
	}
	n.Coord, n.Placed = pos, true
	s.nodes[id] = n
	s.logger.Debug("Tracking overworld map",
		log.String("id", fmt.Sprintf("0x%02x", id)),
		log.Int("width", int(n.Header.Width)),
		log.Int("height", int(n.Header.Height)),
		log.Int("x", pos.X),
		log.Int("y", pos.Y))

	for _, l := range n.Connections {
		next, err := pos.Offset(l.Direction, &n.Header, &l.Connection)
		if err != nil {
			return fmt.Errorf("map 0x%02x: %w", id, err)
		}
		if err := s.place(l.Connection.MapID, next); err != nil {
			return err
		}
	}
	return nil
}

// visit returns map id, decoding it unplaced on first sight.
func (s *Scanner) visit(id uint8) (*Node, error) {
	if isSentinel(id) {
		return nil, nil
	}
	if n := s.nodes[id]; n != nil {
		return n, nil
	}
	n, err := s.decode(id)
	if err != nil {
		return nil, err
	}
	s.nodes[id] = n
	s.logger.Debug("Tracking map",
		log.String("id", fmt.Sprintf("0x%02x", id)),
		log.Int("width", int(n.Header.Width)),
		log.Int("height", int(n.Header.Height)))
	return n, nil
}

// follow walks the warps and connections of n depth first.
func (s *Scanner) follow(n *Node) error {
	if s.followed[n.ID] {
		return nil
	}
	s.followed[n.ID] = true

	targets := make([]uint8, 0, len(n.Warps)+len(n.Connections))
	for _, w := range n.Warps {
		targets = append(targets, w.ToMap)
	}
	for _, l := range n.Connections {
		targets = append(targets, l.Connection.MapID)
	}
	for _, id := range targets {
		next, err := s.visit(id)
		if err != nil {
			return err
		}
		if next == nil {
			continue
		}
		if err := s.follow(next); err != nil {
			return err
		}
	}
	return nil
}

// decode reads the header and object tables of map id.
func (s *Scanner) decode(id uint8) (*Node, error) {
	bank, err := rom.NewTable[rom.U8](s.data, addresses.MapHeaderBanks).EntryAt(int(id))
	if err != nil {
		return nil, fmt.Errorf("map 0x%02x: %w", id, err)
	}
	ptr, err := rom.NewTable[rom.U16](s.data, addresses.MapHeaderPointers).EntryAt(int(id))
	if err != nil {
		return nil, fmt.Errorf("map 0x%02x: %w", id, err)
	}
	addr := rom.NewAddr(uint8(bank), uint16(ptr))
	s.decoded++

	n, err := readNode(s.data, id, addr)
	if err != nil {
		return nil, fmt.Errorf("map 0x%02x at %s: %w", id, addr, err)
	}
	return n, nil
}

func readNode(data []byte, id uint8, addr rom.Addr) (*Node, error) {
	r := rom.NewReader(data, addr)
	n := &Node{ID: id, Addr: addr}
	n.Header = rom.ReadRecord[Header](r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if n.Header.Width > maxDimension || n.Header.Height > maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrMapTooLarge, n.Header.Width, n.Header.Height)
	}

	connections := make([]Connection, n.Header.ConnectionCount())
	for i := range connections {
		connections[i] = rom.ReadRecord[Connection](r)
	}
	links, err := pairDirections(n.Header.Connect, connections)
	if err != nil {
		return nil, err
	}
	n.Connections = links

	objects := r.ReadU16()
	r.Seek(rom.NewAddr(addr.Bank, objects))
	r.Skip(1) // border block

	n.Warps = make([]Warp, r.ReadU8())
	for i := range n.Warps {
		n.Warps[i] = rom.ReadRecord[Warp](r)
	}
	n.Signs = make([]Sign, r.ReadU8())
	for i := range n.Signs {
		n.Signs[i] = rom.ReadRecord[Sign](r)
	}
	n.Entities = make([]Entity, r.ReadU8())
	for i := range n.Entities {
		n.Entities[i].Decode(r)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return n, nil
}

// pairDirections assigns the enabled directions of mask, in order, to the
// connection records.
func pairDirections(mask uint8, connections []Connection) ([]Link, error) {
	dirs := Directions(mask)
	if len(dirs) != len(connections) {
		return nil, fmt.Errorf("%w: mask 0x%02x enables %d directions, %d records",
			ErrConnectionMismatch, mask, len(dirs), len(connections))
	}
	links := make([]Link, len(dirs))
	for i, d := range dirs {
		links[i] = Link{Direction: d, Connection: connections[i]}
	}
	return links, nil
}
