package rom

import "fmt"

// Slicer addresses fixed-size opaque chunks (tiles, decal frames, names)
// laid out back to back from a base address.
type Slicer struct {
	data []byte
	base Addr
	size int
}

// NewSlicer returns a slicer of size-byte chunks starting at base.
func NewSlicer(data []byte, base Addr, size int) Slicer {
	return Slicer{data: data, base: base, size: size}
}

// Size returns the chunk size in bytes.
func (s Slicer) Size() int {
	return s.size
}

// SliceAt returns chunk i. The returned slice aliases the image and must not
// be modified.
func (s Slicer) SliceAt(i int) ([]byte, error) {
	pos := s.base.Position() + i*s.size
	if i < 0 || pos+s.size > len(s.data) {
		return nil, fmt.Errorf("%w: chunk %d of %d bytes at %s", ErrOutOfRange, i, s.size, s.base)
	}
	return s.data[pos : pos+s.size : pos+s.size], nil
}
