package cartridge

import (
	"errors"
	"fmt"
	"os"
)

// ErrROMSizeMismatch indicates an image smaller than its header claims.
var ErrROMSizeMismatch = errors.New("ROM size does not match header")

// ErrROMTooLarge indicates the image exceeds the largest cartridge size.
var ErrROMTooLarge = errors.New("ROM size exceeds maximum allowed size of 8 MiB")

// maxROMSize is the largest image a header can describe.
const maxROMSize = 8 * 1024 * 1024

// Image is a loaded cartridge image. The data is never modified.
type Image struct {
	data   []byte
	header *Header
}

// Load reads a cartridge image from path.
func Load(path string) (*Image, error) {
	// #nosec G304 - path is a user provided ROM file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return New(data)
}

// New wraps data as a cartridge image after checking its header.
func New(data []byte) (*Image, error) {
	if len(data) > maxROMSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrROMTooLarge, len(data))
	}
	header, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if expected := header.ROMBanks() * 0x4000; len(data) < expected {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrROMSizeMismatch, expected, len(data))
	}
	return &Image{data: data, header: header}, nil
}

// Data returns the image bytes. Callers must not modify them.
func (c *Image) Data() []byte {
	return c.data
}

// Header returns the parsed cartridge header.
func (c *Image) Header() *Header {
	return c.header
}
