package config

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	for _, tt := range []Logging{{}, {Debug: true}, {Quiet: true}} {
		assert.NotNil(t, tt.Logger())
	}
}

func TestCheckScale(t *testing.T) {
	tests := []struct {
		scale int
		err   error
	}{
		{1, nil},
		{MaxScale, nil},
		{0, ErrInvalidScale},
		{MaxScale + 1, ErrInvalidScale},
	}
	for _, tt := range tests {
		assert.True(t, errors.Is(CheckScale(tt.scale), tt.err))
	}
}
