package sprite

import "github.com/richardwooding/pokerom/internal/rom"

// BitReader reads a ROM byte stream one bit at a time, most significant bit first.
type BitReader struct {
	r    *rom.Reader
	cur  uint8
	left uint8
}

// NewBitReader returns a bit reader drawing bytes from r.
func NewBitReader(r *rom.Reader) *BitReader {
	return &BitReader{r: r}
}

// Bit returns the next bit.
func (b *BitReader) Bit() uint8 {
	if b.left == 0 {
		b.cur = b.r.ReadU8()
		b.left = 8
	}
	b.left--
	return (b.cur >> b.left) & 1
}

// Bits returns the next n bits as a big-endian value.
func (b *BitReader) Bits(n int) uint16 {
	var v uint16
	for i := 0; i < n; i++ {
		v = v<<1 | uint16(b.Bit())
	}
	return v
}

// Byte reads a whole byte from the underlying cursor, ignoring any
// partially consumed bits.
func (b *BitReader) Byte() uint8 {
	return b.r.ReadU8()
}

// Err returns the error of the underlying cursor.
func (b *BitReader) Err() error {
	return b.r.Err()
}
