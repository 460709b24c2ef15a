// Package romtest builds synthetic cartridge images for tests.
package romtest

import (
	"github.com/richardwooding/pokerom/internal/rom"
)

// Header locations.
const (
	titleStart     = 0x0134
	titleEnd       = 0x0144
	typeOffset     = 0x0147
	romSizeOffset  = 0x0148
	checksumStart  = 0x0134
	checksumEnd    = 0x014C
	headerChecksum = 0x014D
)

// Image is a writable cartridge image.
type Image struct {
	data []byte
}

// New returns a zeroed image of the given number of 16 KiB banks with a
// valid header titled title.
func New(banks int, title string) *Image {
	m := &Image{data: make([]byte, banks*rom.BankSize)}
	copy(m.data[titleStart:titleEnd], title)
	m.data[typeOffset] = 0x13 // MBC3+RAM+BATTERY
	for size := byte(0); 2<<size < banks; size++ {
		m.data[romSizeOffset] = size + 1
	}
	return m
}

// Put writes b at addr.
func (m *Image) Put(addr rom.Addr, b ...byte) {
	copy(m.data[addr.Position():], b)
}

// PutU16 writes little-endian values starting at addr.
func (m *Image) PutU16(addr rom.Addr, values ...uint16) {
	pos := addr.Position()
	for i, v := range values {
		m.data[pos+2*i] = byte(v)
		m.data[pos+2*i+1] = byte(v >> 8)
	}
}

// PutText writes s in the in-game charset followed by terminator.
func (m *Image) PutText(addr rom.Addr, s string, terminator byte) {
	m.Put(addr, append(Encode(s), terminator)...)
}

// Bytes returns the image with its header checksum updated.
func (m *Image) Bytes() []byte {
	var sum byte
	for i := checksumStart; i <= checksumEnd; i++ {
		sum = sum - m.data[i] - 1
	}
	m.data[headerChecksum] = sum
	return m.data
}

// Encode converts letters, digits and spaces to the in-game charset.
// Other characters are dropped.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			out = append(out, byte(0x80+c-'A'))
		case c >= 'a' && c <= 'z':
			out = append(out, byte(0xA0+c-'a'))
		case c >= '0' && c <= '9':
			out = append(out, byte(0xF6+c-'0'))
		case c == ' ':
			out = append(out, 0x7F)
		case c == '\n':
			out = append(out, 0x4E)
		}
	}
	return out
}
