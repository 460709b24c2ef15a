// Package cartridge loads a Game Boy cartridge image and parses its header.
package cartridge

import (
	"errors"
	"fmt"

	"github.com/richardwooding/pokerom/internal/rom"
)

// Header locations.
const (
	headerStart    = 0x0100
	headerEnd      = 0x0150
	checksumStart  = 0x0134
	checksumEnd    = 0x014C
	globalChecksum = 0x014E
)

// Header represents the cartridge header (0x0100-0x014F).
type Header struct {
	EntryPoint     [4]byte
	Logo           [48]byte
	Title          [16]byte // the last bytes double as manufacturer code and CGB flag
	CGBFlag        byte
	NewLicensee    [2]byte
	SGBFlag        byte
	CartridgeType  CartridgeType
	ROMSize        byte // 32 KiB << ROMSize
	RAMSize        byte
	Destination    byte // 0x00 Japan, 0x01 overseas
	OldLicensee    byte
	Version        byte
	HeaderChecksum byte
	GlobalChecksum uint16 // big endian
}

// Decode implements rom.Record.
func (h *Header) Decode(r *rom.Reader) {
	copy(h.EntryPoint[:], r.ReadBytes(4))
	copy(h.Logo[:], r.ReadBytes(48))
	copy(h.Title[:], r.ReadBytes(16))
	h.CGBFlag = h.Title[15]
	copy(h.NewLicensee[:], r.ReadBytes(2))
	h.SGBFlag = r.ReadU8()
	h.CartridgeType = CartridgeType(r.ReadU8())
	h.ROMSize = r.ReadU8()
	h.RAMSize = r.ReadU8()
	h.Destination = r.ReadU8()
	h.OldLicensee = r.ReadU8()
	h.Version = r.ReadU8()
	h.HeaderChecksum = r.ReadU8()
	hi := r.ReadU8()
	h.GlobalChecksum = uint16(hi)<<8 | uint16(r.ReadU8())
}

// Size implements rom.Record.
func (*Header) Size() int { return headerEnd - headerStart }

// CartridgeType identifies the memory bank controller and extra hardware.
//
//nolint:revive // CartridgeType is intentionally explicit for clarity
type CartridgeType byte

// Cartridge types as defined in the header at 0x0147.
const (
	TypeROMOnly          CartridgeType = 0x00
	TypeMBC1             CartridgeType = 0x01
	TypeMBC1RAM          CartridgeType = 0x02
	TypeMBC1RAMBattery   CartridgeType = 0x03
	TypeMBC2             CartridgeType = 0x05
	TypeMBC2Battery      CartridgeType = 0x06
	TypeROMRAM           CartridgeType = 0x08
	TypeROMRAMBattery    CartridgeType = 0x09
	TypeMBC3TimerBattery CartridgeType = 0x0F
	TypeMBC3TimerRAM     CartridgeType = 0x10
	TypeMBC3             CartridgeType = 0x11
	TypeMBC3RAM          CartridgeType = 0x12
	TypeMBC3RAMBattery   CartridgeType = 0x13
	TypeMBC5             CartridgeType = 0x19
	TypeMBC5RAM          CartridgeType = 0x1A
	TypeMBC5RAMBattery   CartridgeType = 0x1B
)

var typeNames = map[CartridgeType]string{
	TypeROMOnly:          "ROM ONLY",
	TypeMBC1:             "MBC1",
	TypeMBC1RAM:          "MBC1+RAM",
	TypeMBC1RAMBattery:   "MBC1+RAM+BATTERY",
	TypeMBC2:             "MBC2",
	TypeMBC2Battery:      "MBC2+BATTERY",
	TypeROMRAM:           "ROM+RAM",
	TypeROMRAMBattery:    "ROM+RAM+BATTERY",
	TypeMBC3TimerBattery: "MBC3+TIMER+BATTERY",
	TypeMBC3TimerRAM:     "MBC3+TIMER+RAM+BATTERY",
	TypeMBC3:             "MBC3",
	TypeMBC3RAM:          "MBC3+RAM",
	TypeMBC3RAMBattery:   "MBC3+RAM+BATTERY",
	TypeMBC5:             "MBC5",
	TypeMBC5RAM:          "MBC5+RAM",
	TypeMBC5RAMBattery:   "MBC5+RAM+BATTERY",
}

// String returns a human-readable name for the cartridge type.
func (t CartridgeType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN (0x%02X)", byte(t))
}

// ROMBanks returns the number of 16 KiB ROM banks, 0 for an invalid size.
func (h *Header) ROMBanks() int {
	if h.ROMSize <= 0x08 {
		return 2 << h.ROMSize
	}
	return 0
}

// ramBanks maps the RAM size byte to 8 KiB banks.
var ramBanks = map[byte]int{0x02: 1, 0x03: 4, 0x04: 16, 0x05: 8}

// RAMSizeBytes returns the external RAM size in bytes.
func (h *Header) RAMSizeBytes() int {
	if h.RAMSize == 0x01 {
		return 2048
	}
	return ramBanks[h.RAMSize] * 8192
}

// TitleString returns the title trimmed of nul bytes.
func (h *Header) TitleString() string {
	end := len(h.Title)
	for i, b := range h.Title {
		if b == 0 || b >= 0x80 {
			end = i
			break
		}
	}
	return string(h.Title[:end])
}

// ErrInvalidROMSize indicates an image too small to contain a header.
var ErrInvalidROMSize = errors.New("ROM too small: must be at least 336 bytes (0x0150)")

// ErrInvalidHeaderChecksum indicates a header checksum mismatch.
var ErrInvalidHeaderChecksum = errors.New("invalid header checksum")

// ParseHeader parses the cartridge header of an image.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < headerEnd {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidROMSize, len(data))
	}
	r := rom.NewReader(data, rom.NewAddr(0, headerStart))
	h := rom.ReadRecord[Header](r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if got := HeaderChecksum(data); got != h.HeaderChecksum {
		return nil, fmt.Errorf("%w: computed 0x%02X, header 0x%02X", ErrInvalidHeaderChecksum, got, h.HeaderChecksum)
	}
	return &h, nil
}

// HeaderChecksum computes the checksum of bytes 0x0134-0x014C.
func HeaderChecksum(data []byte) byte {
	var sum byte
	for _, b := range data[checksumStart : checksumEnd+1] {
		sum = sum - b - 1
	}
	return sum
}

// VerifyGlobalChecksum reports whether the 16-bit sum of the image, excluding
// the checksum bytes, matches the header. Many cartridges fail this check.
func (h *Header) VerifyGlobalChecksum(data []byte) bool {
	var sum uint16
	for i, b := range data {
		if i == globalChecksum || i == globalChecksum+1 {
			continue
		}
		sum += uint16(b)
	}
	return sum == h.GlobalChecksum
}
