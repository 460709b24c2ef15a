// Package text decodes strings stored with the in-game character set.
package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richardwooding/pokerom/internal/addresses"
	"github.com/richardwooding/pokerom/internal/rom"
)

// Terminators.
const (
	End      = 0x50 // generic end of string, name lists
	SignEnd  = 0x57
	EntryEnd = 0x5f // dex descriptions
)

// maxLength bounds a single string walk.
const maxLength = 0x400

var (
	// ErrUnknownChar indicates a byte with no character mapping.
	ErrUnknownChar = errors.New("unknown character")

	// ErrUnknownCommand indicates an unsupported text command byte.
	ErrUnknownCommand = errors.New("unknown text command")

	// ErrUnterminated indicates a string without a terminator.
	ErrUnterminated = errors.New("unterminated string")
)

// Char returns the text of a single character code.
func Char(c byte) (string, error) {
	switch {
	case c >= 0x80 && c <= 0x99:
		return string(rune('A' + c - 0x80)), nil
	case c >= 0xA0 && c <= 0xB9:
		return string(rune('a' + c - 0xA0)), nil
	case c >= 0xF6:
		return string(rune('0' + c - 0xF6)), nil
	}

	switch c {
	case 0x49, 0x4E, 0x4F, 0x55: // 0x49 separates dex sentences, 0x55 is the arrow prompt
		return "\n", nil
	case 0x51:
		return "\n\n", nil
	case 0x52:
		return "<PlayerName>", nil
	case 0x53:
		return "<RivalName>", nil
	case 0x54:
		return "POKÉ", nil
	case 0x7F:
		return " ", nil
	case 0x9A:
		return "(", nil
	case 0x9B:
		return ")", nil
	case 0x9C:
		return ":", nil
	case 0x9D:
		return ";", nil
	case 0x9E:
		return "]", nil
	case 0x9F:
		return "[", nil
	case 0xBA:
		return "É", nil
	case 0xBB:
		return "'d", nil
	case 0xBC:
		return "'l", nil
	case 0xBD:
		return "'s", nil
	case 0xBE:
		return "'t", nil
	case 0xBF:
		return "'v", nil
	case 0xE0:
		return "'", nil
	case 0xE1:
		return "PK", nil
	case 0xE2:
		return "MN", nil
	case 0xE3:
		return "-", nil
	case 0xE4:
		return "'r", nil
	case 0xE5:
		return "'m", nil
	case 0xE6:
		return "?", nil
	case 0xE7:
		return "!", nil
	case 0xE8, 0xF2:
		return ".", nil
	case 0xEF:
		return "♂", nil
	case 0xF0:
		return "$", nil
	case 0xF1:
		return "x", nil
	case 0xF3:
		return "/", nil
	case 0xF4:
		return ",", nil
	case 0xF5:
		return "♀", nil
	}
	return "", fmt.Errorf("%w: 0x%02x", ErrUnknownChar, c)
}

func isTerminator(c byte) bool {
	return c == End || c == SignEnd || c == EntryEnd
}

// Text decodes characters at the cursor until a terminator, which is
// consumed.
func Text(r *rom.Reader) (string, error) {
	var sb strings.Builder
	for range maxLength {
		c := r.ReadU8()
		if err := r.Err(); err != nil {
			return "", err
		}
		if isTerminator(c) {
			return sb.String(), nil
		}
		s, err := Char(c)
		if err != nil {
			return "", fmt.Errorf("text at %s: %w", r.Addr(), err)
		}
		sb.WriteString(s)
	}
	return "", fmt.Errorf("%w at %s", ErrUnterminated, r.Addr())
}

// Fixed decodes a string stored in a field of n bytes, stopping early at End.
func Fixed(b []byte, n int) (string, error) {
	var sb strings.Builder
	for _, c := range b[:min(n, len(b))] {
		if c == End {
			break
		}
		s, err := Char(c)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Command decodes a text command at the cursor. Far text commands follow
// their pointer and return the referenced text.
func Command(r *rom.Reader) (string, error) {
	cmd := r.ReadU8()
	switch cmd {
	case 0x08:
		return "<Script>", r.Err()
	case 0x17:
		ptr := r.ReadU16()
		bank := r.ReadU8()
		if err := r.Err(); err != nil {
			return "", err
		}
		r.Seek(rom.NewAddr(bank, ptr))
		if op := r.ReadU8(); op != 0x00 {
			return "", fmt.Errorf("%w: far text starts with 0x%02x", ErrUnknownCommand, op)
		}
		return Text(r)
	case 0xf5:
		return "<Script: Vending machine>", r.Err()
	case 0xf6:
		return "<Script: Cable club>", r.Err()
	case 0xf7:
		return "<Script: Prize vendor>", r.Err()
	case 0xfe:
		return "<Script: Mart>", r.Err()
	case 0xff:
		return "<Script: Nurse>", r.Err()
	}
	if err := r.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: 0x%02x", ErrUnknownCommand, cmd)
}

// Packed returns entry id (1 based) of an End separated list starting at
// addr. The list has no index, so it is walked from the start.
func Packed(data []byte, addr rom.Addr, id uint8) (string, error) {
	if id == 0 {
		return "", fmt.Errorf("packed list %s: entry ids start at 1", addr)
	}
	r := rom.NewReader(data, addr)
	for range id - 1 {
		if _, err := Text(r); err != nil {
			return "", err
		}
	}
	return Text(r)
}

// ItemName returns the name of an item. Ids above 200 are machines.
func ItemName(data []byte, id uint8) (string, error) {
	switch {
	case id > 250:
		return fmt.Sprintf("HM%02d", id-250), nil
	case id > 200:
		return fmt.Sprintf("TM%02d", id-200), nil
	}
	addr, err := addresses.NamePointer(data, addresses.ItemNames)
	if err != nil {
		return "", err
	}
	return Packed(data, addr, id)
}
