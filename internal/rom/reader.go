package rom

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a read past the end of the image.
var ErrOutOfRange = errors.New("read past end of ROM image")

// Reader is a cursor over an immutable ROM image.
//
// Errors are sticky: after the first failure every read returns zero and
// Err reports the original cause, so a record decoder only checks once.
type Reader struct {
	data []byte
	addr Addr
	err  error
}

// NewReader returns a reader positioned at addr.
func NewReader(data []byte, addr Addr) *Reader {
	return &Reader{data: data, addr: addr}
}

// Addr returns the current cursor address.
func (r *Reader) Addr() Addr {
	return r.addr
}

// Data returns the underlying image.
func (r *Reader) Data() []byte {
	return r.data
}

// Err returns the first error encountered by the reader.
func (r *Reader) Err() error {
	return r.err
}

// Seek moves the cursor to addr.
func (r *Reader) Seek(addr Addr) {
	r.addr = addr
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	if r.err != nil {
		return
	}
	next, err := r.addr.Add(n)
	if err != nil {
		r.err = err
		return
	}
	r.addr = next
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() uint8 {
	if r.err != nil {
		return 0
	}
	pos := r.addr.Position()
	if pos >= len(r.data) {
		r.err = fmt.Errorf("%w: %s (position 0x%X, size 0x%X)", ErrOutOfRange, r.addr, pos, len(r.data))
		return 0
	}
	v := r.data[pos]
	r.Skip(1)
	return v
}

// ReadU16 reads a little-endian 16-bit value.
func (r *Reader) ReadU16() uint16 {
	lo := r.ReadU8()
	hi := r.ReadU8()
	return uint16(hi)<<8 | uint16(lo)
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = r.ReadU8()
	}
	return b
}

// ReadUntil reads single bytes until sentinel and returns the bytes before it.
// The sentinel itself is consumed.
func ReadUntil(r *Reader, sentinel uint8) ([]byte, error) {
	var out []byte
	for {
		b := r.ReadU8()
		if r.err != nil {
			return out, r.err
		}
		if b == sentinel {
			return out, nil
		}
		out = append(out, b)
	}
}
