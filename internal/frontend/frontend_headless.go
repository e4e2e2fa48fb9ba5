//go:build headless

package frontend

import (
	"context"
	"errors"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrogolib/log"
)

// ErrNotAvailable is returned by Run in builds without window support.
var ErrNotAvailable = errors.New("windowed frontend is not available in headless builds, use -headless")

// Options controls the window.
type Options struct {
	Scale   int
	Palette config.Palette
	Title   string
}

// Run returns ErrNotAvailable.
func Run(_ context.Context, _ *log.Logger, _ *chip8.Machine, _ Options) error {
	return ErrNotAvailable
}
