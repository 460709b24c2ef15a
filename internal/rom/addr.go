// Package rom implements bank-addressed access to a Game Boy cartridge image.
//
// The cartridge exposes two 16 KiB windows to the CPU:
// - 0x0000-0x3FFF: ROM bank 00 (fixed)
// - 0x4000-0x7FFF: ROM bank NN (switchable)
//
// An Addr names a byte the way the game code does, as a bank number plus a
// CPU-visible offset, and translates it into a position in the flat image.
package rom

import (
	"errors"
	"fmt"
)

const (
	// BankSize is the size of one switchable ROM bank (16 KiB).
	BankSize = 0x4000
	// WindowEnd is the first offset past the switchable window.
	WindowEnd = 0x8000
)

// ErrBankBoundary indicates an address computation crossed the end of its bank.
var ErrBankBoundary = errors.New("address crosses bank boundary")

// Addr is a (bank, offset) pair in the cartridge address space.
type Addr struct {
	Bank   uint8
	Offset uint16
}

// NewAddr returns the address of offset inside bank.
func NewAddr(bank uint8, offset uint16) Addr {
	return Addr{Bank: bank, Offset: offset}
}

// Position returns the linear position of the address in the image.
// Offsets below 0x4000 always refer to bank 00, whatever the bank field says.
func (a Addr) Position() int {
	if a.Offset >= BankSize {
		return int(a.Bank)*BankSize + int(a.Offset) - BankSize
	}
	return int(a.Offset)
}

// Add returns the address n bytes further in the same bank.
// Moving past 0x3FFF (bank 00) or 0x7FFF (switchable bank) is an error.
func (a Addr) Add(n int) (Addr, error) {
	limit := BankSize
	if a.Offset >= BankSize {
		limit = WindowEnd
	}
	next := int(a.Offset) + n
	if n < 0 || next >= limit {
		return a, fmt.Errorf("%w: %s%+d", ErrBankBoundary, a, n)
	}
	return Addr{Bank: a.Bank, Offset: uint16(next)}, nil //nolint:gosec // bounded by limit
}

// String returns the address in the conventional bb:oooo form.
func (a Addr) String() string {
	return fmt.Sprintf("%02x:%04x", a.Bank, a.Offset)
}
