package sprite

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/richardwooding/pokerom/internal/rom"
)

var spriteAddr = rom.NewAddr(0x01, 0x4000)

// stream builds a ROM image holding dim followed by the given bit string
// (spaces ignored), padded with zero bits.
func stream(dim byte, bits ...string) []byte {
	s := strings.ReplaceAll(strings.Join(bits, ""), " ", "")
	data := make([]byte, 2*rom.BankSize)
	pos := spriteAddr.Position()
	data[pos] = dim
	for i, c := range s {
		if c == '1' {
			data[pos+1+i/8] |= 0x80 >> (i % 8)
		}
	}
	return data
}

func newTestDecoder(data []byte, w, h int) *decoder {
	d := &decoder{br: NewBitReader(rom.NewReader(data, spriteAddr))}
	d.br.Byte() // dimension byte
	d.setSize(w, h)
	return d
}

func TestReadPlaneAllZero(t *testing.T) {
	// 1x1 tile plane: 32 dibits. RLE with k=4: 31 + 1.
	data := stream(0x11, "0", "11110 00001")
	d := newTestDecoder(data, 1, 1)

	plane, err := d.readPlane()
	if err != nil {
		t.Fatalf("readPlane() error = %v", err)
	}
	if !bytes.Equal(plane[:8], make([]byte, 8)) {
		t.Errorf("plane = % X, want all zero", plane[:8])
	}
}

func TestReadPlaneMixed(t *testing.T) {
	// RLE 2 zero dibits, raw dibits 1 and 2, RLE 28 zero dibits (15 + 13).
	data := stream(0x11, "0", "0 1", "01 10 00", "1110 1101")
	d := newTestDecoder(data, 1, 1)

	plane, err := d.readPlane()
	if err != nil {
		t.Fatalf("readPlane() error = %v", err)
	}
	// Dibits 2 and 3 of the first stripe land in columns 2 and 3.
	want := []byte{0x00, 0x00, 0x40, 0x80, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(plane[:8], want) {
		t.Errorf("plane = % X, want % X", plane[:8], want)
	}
}

func TestReadPlaneRawFill(t *testing.T) {
	data := stream(0x11, "1", strings.Repeat("11", 32))
	d := newTestDecoder(data, 1, 1)

	plane, err := d.readPlane()
	if err != nil {
		t.Fatalf("readPlane() error = %v", err)
	}
	if !bytes.Equal(plane[:8], bytes.Repeat([]byte{0xFF}, 8)) {
		t.Errorf("plane = % X, want all 0xFF", plane[:8])
	}
}

func TestReadPlaneTranspose(t *testing.T) {
	// 2x2 tiles: skip 4, raw 3, skip 59, raw 2, skip 63.
	data := stream(0x22, "0", "10 01", "11 00", "11110 11100", "10 00", "111110 000000")
	d := newTestDecoder(data, 2, 2)

	plane, err := d.readPlane()
	if err != nil {
		t.Fatalf("readPlane() error = %v", err)
	}
	// Dibit 4 is row 0, column 4 of the first stripe; dibit 64 opens the
	// second stripe.
	want := make([]byte, 32)
	want[4] = 0xC0
	want[16] = 0x80
	if !bytes.Equal(plane[:32], want) {
		t.Errorf("plane = % X, want % X", plane[:32], want)
	}
}

func TestReadPlaneErrors(t *testing.T) {
	tests := []struct {
		name string
		bits []string
		want error
	}{
		{"run prefix too long", []string{"0", strings.Repeat("1", 15), "0"}, ErrRunLength},
		{"run past plane end", []string{"0", "11110 11111"}, ErrPlaneOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDecoder(stream(0x11, tt.bits...), 1, 1)
			if _, err := d.readPlane(); !errors.Is(err, tt.want) {
				t.Errorf("readPlane() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeAllZero(t *testing.T) {
	zeroPlane := "0 11110 00001"
	data := stream(0x11, "0", zeroPlane, "10", zeroPlane)

	img, err := Decode(rom.NewReader(data, spriteAddr))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Width != CanvasPixels || img.Height != CanvasPixels {
		t.Errorf("Decode() size = %dx%d, want %dx%d", img.Width, img.Height, CanvasPixels, CanvasPixels)
	}
	if len(img.Pix) != img.Width*img.Height/4 {
		t.Errorf("len(Pix) = %d, want %d", len(img.Pix), img.Width*img.Height/4)
	}
	if !bytes.Equal(img.Pix, make([]byte, Size)) {
		t.Error("Decode() of all-zero planes produced non-zero pixels")
	}
}

func TestDecodeCentersTile(t *testing.T) {
	// Plane A raw 0xFF, encoding 1, plane B zero: B becomes delta(A).
	data := stream(0x11, "0", "1", strings.Repeat("11", 32), "10", "0 11110 00001")

	img, err := Decode(rom.NewReader(data, spriteAddr))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// delta(0xFF) = 0xAA in both planes: shades 3,0,3,0...
	// A 1x1 sprite sits on tile column 3, bottom tile row.
	tests := []struct {
		x, y int
		want uint8
	}{
		{24, 48, 3},
		{25, 48, 0},
		{30, 55, 3},
		{31, 55, 0},
		{24, 47, 0},
		{22, 48, 0},
		{32, 48, 0},
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodePrimarySwapsPlanes(t *testing.T) {
	// Plane A raw 0xFF, encoding 0: A is delta decoded to 0xAA, B stays 0.
	bitsA := []string{"1", strings.Repeat("11", 32)}
	zero := "0 11110 00001"

	first := stream(0x11, append(append([]string{"0"}, bitsA...), "0", zero)...)
	second := stream(0x11, append(append([]string{"1"}, bitsA...), "0", zero)...)

	a, err := Decode(rom.NewReader(first, spriteAddr))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	b, err := Decode(rom.NewReader(second, spriteAddr))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if got := a.At(24, 48); got != 2 {
		t.Errorf("primary 0: At(24, 48) = %d, want 2", got)
	}
	if got := b.At(24, 48); got != 1 {
		t.Errorf("primary 1: At(24, 48) = %d, want 1", got)
	}
}

func TestDecodeEncodings(t *testing.T) {
	// Both planes raw 0xFF. Delta decoding turns 0xFF into 0xAA.
	raw := []string{"1", strings.Repeat("11", 32)}
	tests := []struct {
		name     string
		selector string
		left     uint8
		right    uint8
	}{
		{"delta both", "0", 3, 0},
		{"delta A xor", "10", 2, 1},
		{"delta both xor", "11", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits := append(append([]string{"0"}, raw...), tt.selector)
			data := stream(0x11, append(bits, raw...)...)

			img, err := Decode(rom.NewReader(data, spriteAddr))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got := img.At(24, 48); got != tt.left {
				t.Errorf("At(24, 48) = %d, want %d", got, tt.left)
			}
			if got := img.At(25, 48); got != tt.right {
				t.Errorf("At(25, 48) = %d, want %d", got, tt.right)
			}
		})
	}
}

func TestDecodeCentersWideSprite(t *testing.T) {
	// 2x1 tiles, plane A raw 0xFF, encoding 1, plane B zero (64 dibits).
	data := stream(0x21, "0", "1", strings.Repeat("11", 64), "10", "0 111110 000001")

	img, err := Decode(rom.NewReader(data, spriteAddr))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	// Two tile columns starting at column 3, bottom tile row.
	minX, minY, maxX, maxY := CanvasPixels, CanvasPixels, -1, -1
	for y := range CanvasPixels {
		for x := range CanvasPixels {
			if img.At(x, y) == 0 {
				continue
			}
			minX, minY = min(minX, x), min(minY, y)
			maxX, maxY = max(maxX, x), max(maxY, y)
		}
	}
	if minX != 24 || minY != 48 || maxX != 38 || maxY != 55 {
		t.Errorf("painted area = (%d,%d)-(%d,%d), want (24,48)-(38,55)", minX, minY, maxX, maxY)
	}
	if got := img.At(32, 50); got != 3 {
		t.Errorf("At(32, 50) = %d, want 3", got)
	}
}

func TestDecodeTooLarge(t *testing.T) {
	data := stream(0x81, "0")
	if _, err := Decode(rom.NewReader(data, spriteAddr)); !errors.Is(err, ErrSpriteTooLarge) {
		t.Errorf("Decode() error = %v, want %v", err, ErrSpriteTooLarge)
	}
}

func TestCombineUnknownEncoding(t *testing.T) {
	d := newTestDecoder(stream(0x11), 1, 1)
	a, b := make([]byte, 8), make([]byte, 8)
	if err := d.combine(a, b, 3); !errors.Is(err, ErrEncoding) {
		t.Errorf("combine() error = %v, want %v", err, ErrEncoding)
	}
}

func TestDeltaDecode(t *testing.T) {
	data := []byte{0x10}
	DeltaDecode(data, 1, 1)
	// hi: code[0][1] = 1, lo: code[1][0] = 15
	if data[0] != 0x1F {
		t.Errorf("DeltaDecode(0x10) = 0x%02X, want 0x1F", data[0])
	}
}

func TestDeltaDecodeChainsRows(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		lineSize int
		rows     int
		want     []byte
	}{
		{"one column", []byte{0x10, 0xFF, 0x01}, 1, 3, []byte{0x1F, 0x55, 0xFE}},
		{"columns independent", []byte{0x80, 0x01, 0x00, 0xF0}, 2, 2, []byte{0xFF, 0x01, 0xFF, 0x5F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Clone(tt.data)
			DeltaDecode(data, tt.lineSize, tt.rows)
			if !bytes.Equal(data, tt.want) {
				t.Errorf("DeltaDecode(% X) = % X, want % X", tt.data, data, tt.want)
			}
		})
	}
}

func TestBitReader(t *testing.T) {
	data := []byte{0xA5, 0x0F}
	br := NewBitReader(rom.NewReader(data, rom.NewAddr(0, 0)))

	if got := br.Bits(3); got != 0b101 {
		t.Errorf("Bits(3) = %03b, want 101", got)
	}
	if got := br.Bits(9); got != 0b0_0101_0000 {
		t.Errorf("Bits(9) = %09b, want 001010000", got)
	}
	if got := br.Bits(4); got != 0xF {
		t.Errorf("Bits(4) = %X, want F", got)
	}
}
