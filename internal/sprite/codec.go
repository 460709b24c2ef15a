// Package sprite decodes the compressed creature and trainer pictures.
//
// A picture is stored as a dimension byte followed by a bitstream holding two
// run-length coded 1bpp planes. The planes are delta coded and optionally
// XOR combined, then merged into a 2bpp image and centered on a 7x7 tile
// canvas.
//
// Stream layout (bits unless noted):
//
//	dimension byte   width << 4 | height, in tiles
//	1                primary plane selector
//	plane A          mode bit, then alternating RLE / raw packets
//	1 or 2           encoding: 0, 10 (1) or 11 (2)
//	plane B          same as plane A
package sprite

import (
	"errors"
	"fmt"

	"github.com/richardwooding/pokerom/internal/gfx"
	"github.com/richardwooding/pokerom/internal/rom"
)

const (
	// MaxTiles is the largest sprite side in tiles.
	MaxTiles = 7
	// PlaneSize is the byte size of a 7x7 tile 1bpp plane.
	PlaneSize = MaxTiles * MaxTiles * gfx.TilePixels
	// Size is the byte size of a 7x7 tile 2bpp image.
	Size = 2 * PlaneSize
	// CanvasPixels is the side of the output canvas.
	CanvasPixels = MaxTiles * gfx.TilePixels

	// maxRunPrefix bounds the unary run length prefix so counts fit 16 bits.
	maxRunPrefix = 15
)

var (
	// ErrSpriteTooLarge indicates a dimension byte above 7x7 tiles.
	ErrSpriteTooLarge = errors.New("sprite larger than 7x7 tiles")

	// ErrRunLength indicates a run length prefix that would overflow.
	ErrRunLength = errors.New("run length prefix too long")

	// ErrPlaneOverflow indicates data written past the end of a plane.
	ErrPlaneOverflow = errors.New("plane overflow")

	// ErrEncoding indicates an unknown plane encoding.
	ErrEncoding = errors.New("unknown plane encoding")
)

// deltaCodes maps an encoded nibble to its decoded value, selected by the
// low bit of the previous decoded nibble.
var deltaCodes = [2][16]uint8{
	{0, 1, 3, 2, 7, 6, 4, 5, 15, 14, 12, 13, 8, 9, 11, 10},
	{15, 14, 12, 13, 8, 9, 11, 10, 0, 1, 3, 2, 7, 6, 4, 5},
}

// decoder holds the state of one picture decode.
type decoder struct {
	br *BitReader

	widthTiles  int
	heightTiles int
	lineSize    int // 8 * widthTiles
	rows        int // 8 * heightTiles
	planeSize   int // bytes in one 1bpp plane
}

// Decode reads the compressed picture at the reader's cursor and returns it
// as a 56x56 2bpp image.
func Decode(r *rom.Reader) (*gfx.Image2bpp, error) {
	start := r.Addr()
	d := &decoder{br: NewBitReader(r)}
	pix, err := d.decode()
	if err == nil {
		err = r.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("sprite at %s: %w", start, err)
	}
	return gfx.FromData(CanvasPixels, CanvasPixels, pix)
}

func (d *decoder) decode() ([]byte, error) {
	dim := d.br.Byte()
	d.setSize(int(dim>>4), int(dim&0x0F))
	if d.widthTiles > MaxTiles || d.heightTiles > MaxTiles {
		return nil, fmt.Errorf("%w: %dx%d", ErrSpriteTooLarge, d.widthTiles, d.heightTiles)
	}

	primary := d.br.Bit()
	planeA, err := d.readPlane()
	if err != nil {
		return nil, err
	}
	encoding := d.readEncoding()
	planeB, err := d.readPlane()
	if err != nil {
		return nil, err
	}

	if err := d.combine(planeA, planeB, encoding); err != nil {
		return nil, err
	}

	var merged []byte
	if primary == 0 {
		merged = d.merge(planeA, planeB)
	} else {
		merged = d.merge(planeB, planeA)
	}

	return gfx.TilesTo7x7ColMajor(d.center(merged)), nil
}

func (d *decoder) setSize(w, h int) {
	d.widthTiles = w
	d.heightTiles = h
	d.lineSize = 8 * w
	d.rows = 8 * h
	d.planeSize = w * h * 8
}

// readPlane decodes one plane: a mode bit, then alternating RLE and raw
// packets until the plane is full.
func (d *decoder) readPlane() ([]byte, error) {
	p := newPlane(d.planeSize)
	raw := d.br.Bit() == 1
	for !p.full() {
		var err error
		if raw {
			err = d.readRaw(p)
		} else {
			err = d.readRLE(p)
		}
		if err != nil {
			return nil, err
		}
		// A truncated stream would otherwise spin on zero bits.
		if err := d.br.Err(); err != nil {
			return nil, err
		}
		raw = !raw
	}
	return p.transpose(d.lineSize, d.rows/2), nil
}

// readRLE skips a run of zero dibits. The length is a unary prefix of k ones
// closed by a zero, followed by k+1 bits v: (2 << k) - 1 + v.
func (d *decoder) readRLE(p *plane) error {
	k := 0
	for d.br.Bit() == 1 {
		k++
		if k >= maxRunPrefix {
			return fmt.Errorf("%w: %d", ErrRunLength, k)
		}
	}
	v := int(d.br.Bits(k + 1))
	return p.skip((2 << k) - 1 + v)
}

// readRaw copies non-zero dibits until a zero dibit or a full plane.
func (d *decoder) readRaw(p *plane) error {
	for {
		v := uint8(d.br.Bits(2)) //nolint:gosec // 2 bits
		if v == 0 {
			return nil
		}
		if err := p.push(v); err != nil {
			return err
		}
		if p.full() {
			return nil
		}
	}
}

func (d *decoder) readEncoding() uint8 {
	if d.br.Bit() == 0 {
		return 0
	}
	return d.br.Bit() + 1
}

// combine applies the delta and XOR transforms selected by encoding.
func (d *decoder) combine(a, b []byte, encoding uint8) error {
	switch encoding {
	case 0:
		// Not seen in known cartridges.
		DeltaDecode(a, d.lineSize, d.heightTiles)
		DeltaDecode(b, d.lineSize, d.heightTiles)
	case 1:
		DeltaDecode(a, d.lineSize, d.heightTiles)
		xor(b, a, d.planeSize)
	case 2:
		DeltaDecode(a, d.lineSize, d.heightTiles)
		DeltaDecode(b, d.lineSize, d.heightTiles)
		xor(b, a, d.planeSize)
	default:
		return fmt.Errorf("%w: %d", ErrEncoding, encoding)
	}
	return nil
}

// DeltaDecode undoes the delta coding of a plane in place. The plane is
// viewed as rows lines of lineSize bytes; each byte column is decoded top to
// bottom, one nibble (4 pixels) at a time, each nibble chained on the
// previous one.
func DeltaDecode(data []byte, lineSize, rows int) {
	for x := 0; x < lineSize; x++ {
		var prev uint8
		for y := 0; y < rows; y++ {
			i := y*lineSize + x
			hi := deltaCodes[prev&1][data[i]>>4]
			lo := deltaCodes[hi&1][data[i]&0x0F]
			data[i] = hi<<4 | lo
			prev = lo
		}
	}
}

func xor(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}

// merge interleaves two planes into one 2bpp stream, hi plane first.
func (d *decoder) merge(hi, lo []byte) []byte {
	out := make([]byte, Size)
	for i := 0; i < d.planeSize; i++ {
		out[2*i] = hi[i]
		out[2*i+1] = lo[i]
	}
	return out
}

// center places the tile columns of the picture on the 7x7 canvas,
// bottom aligned and horizontally centered the way the game does it.
func (d *decoder) center(src []byte) []byte {
	out := make([]byte, Size)
	align := gfx.TilePixels * (MaxTiles*((10-d.widthTiles)/2) - d.heightTiles)
	i := 0
	for x := 0; x < d.widthTiles; x++ {
		for y := 0; y < d.rows; y++ {
			pos := align + x*MaxTiles*gfx.TilePixels + y
			out[2*pos] = src[i]
			out[2*pos+1] = src[i+1]
			i += 2
		}
	}
	return out
}
