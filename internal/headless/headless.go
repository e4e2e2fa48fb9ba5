// Package headless runs a machine without a window for a fixed number of
// frames and prints the resulting display as text.
package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

const (
	litPixel   = '#'
	unlitPixel = '.'
)

// Options controls a headless run.
type Options struct {
	Frames  int    // number of frames to run
	FrameMs uint32 // elapsed milliseconds per frame
	Keys    uint16 // key state bitmask held down during the run
}

// Run steps the machine for the configured number of frames and writes the
// final display to the writer. A machine fault stops the run, the display
// at the time of the fault is still written.
func Run(ctx context.Context, logger *log.Logger, machine *chip8.Machine, writer io.Writer, opts Options) error {
	machine.SetKeyState(opts.Keys)

	runErr := run(ctx, machine, opts)

	var fault *chip8.Fault
	switch {
	case runErr == nil:
	case errors.As(runErr, &fault):
		logger.Error("Machine fault",
			log.Hex("pc", fault.PC),
			log.Hex("opcode", fault.Word),
			log.Err(fault.Err))
	default:
		return runErr
	}

	if err := WriteDisplay(writer, machine.Display()); err != nil {
		return err
	}

	logger.Debug("Headless run finished",
		log.Int("frames", opts.Frames),
		log.Uint8("delay_timer", machine.DelayTimer()),
		log.Uint8("sound_timer", machine.SoundTimer()))
	return runErr
}

func run(ctx context.Context, machine *chip8.Machine, opts Options) error {
	for frame := range opts.Frames {
		select {
		case <-ctx.Done():
			return fmt.Errorf("running frame %d: %w", frame, ctx.Err())
		default:
		}

		if err := machine.Step(opts.FrameMs); err != nil {
			return fmt.Errorf("running frame %d: %w", frame, err)
		}
	}
	return nil
}

// WriteDisplay writes the display as text, one line per row.
func WriteDisplay(writer io.Writer, surface *display.Surface) error {
	var buf strings.Builder
	buf.Grow((display.Width + 1) * display.Height)

	for y := range display.Height {
		for x := range display.Width {
			if surface.Pixel(x, y) {
				buf.WriteByte(litPixel)
			} else {
				buf.WriteByte(unlitPixel)
			}
		}
		buf.WriteByte('\n')
	}

	if _, err := io.WriteString(writer, buf.String()); err != nil {
		return fmt.Errorf("writing display: %w", err)
	}
	return nil
}
