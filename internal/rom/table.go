package rom

import (
	"errors"
	"fmt"
)

// MaxTableEntries bounds sentinel-terminated walks; indices are 8-bit in the game.
const MaxTableEntries = 0xFF

// ErrUnterminated indicates a sentinel-terminated list that runs past
// MaxTableEntries entries.
var ErrUnterminated = errors.New("list not terminated")

// Record is a fixed-width structure stored in the ROM.
// Decode must consume exactly Size bytes.
//
// Variable-width structures deliberately do not implement Size and can
// only be read sequentially with their own Decode.
type Record interface {
	Decode(r *Reader)
	Size() int
}

// recordPtr constrains P to be *T implementing Record.
type recordPtr[T any] interface {
	*T
	Record
}

// Table is an array of fixed-width records starting at a base address.
type Table[T any, P recordPtr[T]] struct {
	data []byte
	base Addr
}

// NewTable returns the table of T located at base.
func NewTable[T any, P recordPtr[T]](data []byte, base Addr) Table[T, P] {
	return Table[T, P]{data: data, base: base}
}

// Base returns the address of the first entry.
func (t Table[T, P]) Base() Addr {
	return t.base
}

// Width returns the size in bytes of one entry.
func (t Table[T, P]) Width() int {
	return P(new(T)).Size()
}

// EntryAt decodes entry i without looking at any other entry.
func (t Table[T, P]) EntryAt(i int) (T, error) {
	var v T
	r := NewReader(t.data, t.base)
	r.Skip(i * t.Width())
	P(&v).Decode(r)
	if err := r.Err(); err != nil {
		return v, fmt.Errorf("table %s entry %d: %w", t.base, i, err)
	}
	return v, nil
}

// Take decodes the first n entries.
func (t Table[T, P]) Take(n int) ([]T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := t.EntryAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// TakeWhile decodes entries until keep returns false for one of them.
// The rejected entry is not returned. A list with no rejected entry within
// MaxTableEntries fails with ErrUnterminated.
func (t Table[T, P]) TakeWhile(keep func(T) bool) ([]T, error) {
	var out []T
	for i := 0; i < MaxTableEntries; i++ {
		v, err := t.EntryAt(i)
		if err != nil {
			return nil, err
		}
		if !keep(v) {
			return out, nil
		}
		out = append(out, v)
	}
	return nil, fmt.Errorf("table %s: %w after %d entries", t.base, ErrUnterminated, MaxTableEntries)
}

// U8 is a single byte record.
type U8 uint8

// Decode implements Record.
func (v *U8) Decode(r *Reader) { *v = U8(r.ReadU8()) }

// Size implements Record.
func (*U8) Size() int { return 1 }

// U16 is a little-endian 16-bit record.
type U16 uint16

// Decode implements Record.
func (v *U16) Decode(r *Reader) { *v = U16(r.ReadU16()) }

// Size implements Record.
func (*U16) Size() int { return 2 }

// ReadRecord decodes one record of type T at the reader's cursor.
func ReadRecord[T any, P recordPtr[T]](r *Reader) T {
	var v T
	P(&v).Decode(r)
	return v
}
