package text

import (
	"errors"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/richardwooding/pokerom/internal/rom"
	"github.com/richardwooding/pokerom/internal/romtest"
)

func TestChar(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{0x80, "A"},
		{0x99, "Z"},
		{0xA0, "a"},
		{0xB9, "z"},
		{0xF6, "0"},
		{0xFF, "9"},
		{0x7F, " "},
		{0x54, "POKÉ"},
		{0xEF, "♂"},
		{0x49, "\n"},
		{0x51, "\n\n"},
		{0xF2, "."},
		{0xBD, "'s"},
	}
	for _, tt := range tests {
		got, err := Char(tt.code)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	for _, code := range []byte{0x00, 0x50, 0xC0, 0xE9} {
		_, err := Char(code)
		assert.True(t, errors.Is(err, ErrUnknownChar), fmt.Sprintf("0x%02x", code))
	}
}

func TestText(t *testing.T) {
	addr := rom.NewAddr(1, 0x4000)
	m := romtest.New(2, "TEST")
	m.PutText(addr, "Hello", SignEnd)
	data := m.Bytes()

	r := rom.NewReader(data, addr)
	got, err := Text(r)
	assert.NoError(t, err)
	assert.Equal(t, "Hello", got)
	assert.Equal(t, rom.NewAddr(1, 0x4006), r.Addr())
}

func TestTextUnknownChar(t *testing.T) {
	addr := rom.NewAddr(1, 0x4000)
	m := romtest.New(2, "TEST")
	m.Put(addr, 0x80, 0x01, End)

	_, err := Text(rom.NewReader(m.Bytes(), addr))
	assert.True(t, errors.Is(err, ErrUnknownChar))
}

func TestFixed(t *testing.T) {
	b := append(romtest.Encode("RATTATA"), End, 0x80, 0x80)
	got, err := Fixed(b, 10)
	assert.NoError(t, err)
	assert.Equal(t, "RATTATA", got)

	got, err = Fixed(romtest.Encode("ABCDEFGHIJKL"), 10)
	assert.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJ", got)
}

func TestCommand(t *testing.T) {
	start := rom.NewAddr(1, 0x4000)
	far := rom.NewAddr(1, 0x5000)
	m := romtest.New(2, "TEST")
	m.Put(start, 0x17, 0x00, 0x50, 0x01)
	m.Put(far, 0x00)
	m.PutText(rom.NewAddr(1, 0x5001), "Far", SignEnd)
	m.Put(rom.NewAddr(1, 0x6000), 0xfe)
	m.Put(rom.NewAddr(1, 0x6001), 0x42)
	data := m.Bytes()

	got, err := Command(rom.NewReader(data, start))
	assert.NoError(t, err)
	assert.Equal(t, "Far", got)

	got, err = Command(rom.NewReader(data, rom.NewAddr(1, 0x6000)))
	assert.NoError(t, err)
	assert.Equal(t, "<Script: Mart>", got)

	_, err = Command(rom.NewReader(data, rom.NewAddr(1, 0x6001)))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
}

func TestPacked(t *testing.T) {
	addr := rom.NewAddr(1, 0x4000)
	m := romtest.New(2, "TEST")
	var list []byte
	for _, name := range []string{"RHYDON", "KANGASKHAN", "NIDORAN"} {
		list = append(list, romtest.Encode(name)...)
		list = append(list, End)
	}
	m.Put(addr, list...)
	data := m.Bytes()

	got, err := Packed(data, addr, 2)
	assert.NoError(t, err)
	assert.Equal(t, "KANGASKHAN", got)

	got, err = Packed(data, addr, 3)
	assert.NoError(t, err)
	assert.Equal(t, "NIDORAN", got)

	_, err = Packed(data, addr, 0)
	assert.Error(t, err)
}

func TestItemNameMachines(t *testing.T) {
	data := romtest.New(2, "TEST").Bytes()

	got, err := ItemName(data, 201)
	assert.NoError(t, err)
	assert.Equal(t, "TM01", got)

	got, err = ItemName(data, 255)
	assert.NoError(t, err)
	assert.Equal(t, "HM05", got)
}
