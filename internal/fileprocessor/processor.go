// Package fileprocessor handles ROM loading and session processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/headless"
	"github.com/retroenv/retrochip8/internal/listing"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Processor runs a single ROM file.
type Processor struct {
	logger *log.Logger
	stdout io.Writer

	runWindow func(ctx context.Context, logger *log.Logger, machine *chip8.Machine, opts frontend.Options) error
}

// New creates a new processor that prints console output to stdout.
func New(logger *log.Logger) *Processor {
	return &Processor{
		logger:    logger,
		stdout:    os.Stdout,
		runWindow: frontend.Run,
	}
}

// ProcessFile handles the complete workflow for a ROM file: it is either
// written as disassembly listing, run headless or run in a window.
func (p *Processor) ProcessFile(ctx context.Context, opts options.Program) error {
	program, err := loader.New(p.logger).Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	if opts.Disasm {
		return p.writeListing(opts, program)
	}

	machine, err := p.createMachine(opts, program)
	if err != nil {
		return err
	}

	if opts.Headless {
		headlessOpts := headless.Options{
			Frames:  opts.Frames,
			FrameMs: uint32(opts.FrameMs),
			Keys:    uint16(opts.Keys),
		}
		if err := headless.Run(ctx, p.logger, machine, p.stdout, headlessOpts); err != nil {
			return fmt.Errorf("running headless: %w", err)
		}
		return nil
	}

	palette, err := config.NewPalette(opts.Foreground, opts.Background)
	if err != nil {
		return fmt.Errorf("creating palette: %w", err)
	}

	windowOpts := frontend.Options{
		Scale:   opts.Scale,
		Palette: palette,
		Title:   "retrochip8 - " + filepath.Base(opts.Input),
	}
	if err := p.runWindow(ctx, p.logger, machine, windowOpts); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

func (p *Processor) createMachine(opts options.Program, program []byte) (*chip8.Machine, error) {
	seed := opts.Seed
	if !opts.SeedSet {
		seed = uint64(time.Now().UnixNano())
	}
	p.logger.Debug("Random source", log.Hex("seed", seed))

	machine := chip8.New(p.logger,
		chip8.WithTrace(opts.Trace),
		chip8.WithRandomSource(chip8.NewRandomSource(seed)))

	if err := machine.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("creating machine: %w", err)
	}
	return machine, nil
}

func (p *Processor) writeListing(opts options.Program, program []byte) (err error) {
	writer := p.stdout
	if opts.Output != "" {
		file, createErr := os.Create(opts.Output)
		if createErr != nil {
			return fmt.Errorf("creating output file %s: %w", opts.Output, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing output file %s: %w", opts.Output, closeErr)
			}
		}()
		writer = file
	}

	if err := listing.New(p.logger, listing.DefaultOptions).Write(writer, program); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
