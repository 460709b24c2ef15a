// Package config holds the command line settings shared by every command.
package config

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// MaxScale bounds the picture scale factor.
const MaxScale = 10

// ErrInvalidScale indicates the scale factor is out of valid range.
var ErrInvalidScale = errors.New("scale must be between 1 and 10")

// Logging holds the global verbosity flags.
type Logging struct {
	Debug bool `help:"Enable debug output." xor:"verbosity"`
	Quiet bool `help:"Only output errors." xor:"verbosity"`
}

// Logger returns a logger for the selected verbosity.
func (l Logging) Logger() *log.Logger {
	return CreateLogger(l.Debug, l.Quiet)
}

// CreateLogger returns a logger at debug level, error level when quiet, or
// info level otherwise.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CheckScale validates a picture scale factor.
func CheckScale(scale int) error {
	if scale < 1 || scale > MaxScale {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, scale)
	}
	return nil
}
