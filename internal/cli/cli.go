// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	flags.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.SeedSet = true
		}
	})

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Trace {
		opts.Debug = true
	}

	if opts.Scale < 1 || opts.Scale > options.MaxScale {
		return fmt.Errorf("invalid scale %d: valid range is 1-%d", opts.Scale, options.MaxScale)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("invalid frame count %d", opts.Frames)
	}
	if opts.FrameMs == 0 || opts.FrameMs > 1000 {
		return fmt.Errorf("invalid frame duration %dms: valid range is 1-1000", opts.FrameMs)
	}
	if opts.Keys > options.MaxKeys {
		return fmt.Errorf("invalid key mask $%X: only keys 0-F exist", opts.Keys)
	}
	if opts.Disasm && opts.Headless {
		return fmt.Errorf("-disasm and -headless can not be combined")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output .asm file for -disasm, printed on console if no name given")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Disasm, "disasm", false, "write a disassembly listing of the ROM instead of running it")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a window and print the final display as text")
	flags.IntVar(&opts.Scale, "scale", options.DefaultScale, "integer window scale factor")
	flags.StringVar(&opts.Foreground, "fg", options.DefaultForeground, "color of lit pixels as #rrggbb")
	flags.StringVar(&opts.Background, "bg", options.DefaultBackground, "color of unlit pixels as #rrggbb")
	flags.IntVar(&opts.Frames, "frames", options.DefaultFrames, "number of frames to run in headless mode")
	flags.UintVar(&opts.FrameMs, "frame-ms", options.DefaultFrameMs, "milliseconds per frame in headless mode")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random source, time based if not set")
	flags.UintVar(&opts.Keys, "keys", 0, "key bitmask held down in headless mode, bit n is key n, for example 0x20")
}
