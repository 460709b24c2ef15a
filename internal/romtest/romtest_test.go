package romtest

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/richardwooding/pokerom/internal/rom"
)

func TestNewHeader(t *testing.T) {
	data := New(64, "POKEMON RED").Bytes()

	assert.Equal(t, 64*rom.BankSize, len(data))
	assert.Equal(t, "POKEMON RED", string(data[titleStart:titleStart+11]))
	assert.Equal(t, byte(0x05), data[romSizeOffset]) // 1 MiB

	var sum byte
	for i := checksumStart; i <= checksumEnd; i++ {
		sum = sum - data[i] - 1
	}
	assert.Equal(t, sum, data[headerChecksum])
}

func TestPut(t *testing.T) {
	m := New(4, "TEST")
	m.Put(rom.NewAddr(2, 0x4001), 0xAA, 0xBB)
	m.PutU16(rom.NewAddr(3, 0x7000), 0x1234)
	data := m.Bytes()

	assert.Equal(t, byte(0xAA), data[2*rom.BankSize+1])
	assert.Equal(t, byte(0xBB), data[2*rom.BankSize+2])
	assert.Equal(t, byte(0x34), data[3*rom.BankSize+0x3000])
	assert.Equal(t, byte(0x12), data[3*rom.BankSize+0x3001])
}

func TestEncode(t *testing.T) {
	assert.Equal(t, []byte{0x80, 0xA1, 0x7F, 0xF7}, Encode("Ab 1"))
}
