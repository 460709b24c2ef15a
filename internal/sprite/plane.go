package sprite

import "fmt"

// plane is a 1bpp buffer written two bits (one dibit) at a time.
type plane struct {
	pos   int   // byte position
	dibit uint8 // dibit position within the byte, 0 is the most significant
	size  int   // bytes in use
	data  [PlaneSize]byte
}

func newPlane(size int) *plane {
	return &plane{size: size}
}

func (p *plane) full() bool {
	return p.pos == p.size
}

// skip advances over count zero dibits. The buffer starts zeroed so nothing
// is written.
func (p *plane) skip(count int) error {
	p.pos += count / 4
	p.dibit += uint8(count % 4) //nolint:gosec // < 4
	if p.dibit > 3 {
		p.dibit -= 4
		p.pos++
	}
	if p.pos > p.size {
		return fmt.Errorf("%w: run of %d dibits ends at byte %d of %d", ErrPlaneOverflow, count, p.pos, p.size)
	}
	return nil
}

func (p *plane) push(v uint8) error {
	if p.full() {
		return fmt.Errorf("%w: write past byte %d", ErrPlaneOverflow, p.size)
	}
	p.data[p.pos] |= v << ((3 - p.dibit) * 2)
	if p.dibit == 3 {
		p.dibit = 0
		p.pos++
	} else {
		p.dibit++
	}
	return nil
}

// transpose re-linearizes a plane filled in vertical stripes of 4 dibit rows
// (one byte column wide) into row-major order. width is the line size in
// dibits and rows the number of dibit rows.
func (p *plane) transpose(width, rows int) []byte {
	out := newPlane(p.size)
	for y := 0; y < rows; y += 4 {
		for x := 0; x < width; x++ {
			for k := 0; k < 4; k++ {
				i := (y+k)*width + x
				v := (p.data[i/4] >> ((3 - uint(i%4)) * 2)) & 0b11
				_ = out.push(v) // same size as p, cannot overflow
			}
		}
	}
	return out.data[:]
}
