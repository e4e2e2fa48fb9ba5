// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output .asm file for -disasm (default: stdout)"`
}

// Flags contains behavior options.
type Flags struct {
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Trace    bool `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
	Disasm   bool `flag:"disasm" usage:"write a disassembly listing instead of running the ROM"`
	Headless bool `flag:"headless" usage:"run without a window and print the display as text"`
}

// DisplayFlags contains window and palette options.
type DisplayFlags struct {
	Scale      int    `flag:"scale" usage:"integer window scale factor" default:"16"`
	Foreground string `flag:"fg" usage:"color of lit pixels as #rrggbb" default:"#ffffff"`
	Background string `flag:"bg" usage:"color of unlit pixels as #rrggbb" default:"#232323"`
}

// MachineFlags contains emulation options.
type MachineFlags struct {
	Frames  int    `flag:"frames" usage:"number of frames to run in headless mode" default:"600"`
	FrameMs uint   `flag:"frame-ms" usage:"milliseconds per headless frame" default:"16"`
	Seed    uint64 `flag:"seed" usage:"seed of the random source (default: time based)"`
	Keys    uint   `flag:"keys" usage:"key bitmask held down in headless mode, bit n is key n"`
	SeedSet bool   // seed was passed explicitly
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	DisplayFlags
	MachineFlags
}

// Default values of the options.
const (
	DefaultScale      = 16
	DefaultForeground = "#ffffff"
	DefaultBackground = "#232323"
	DefaultFrames     = 600
	DefaultFrameMs    = 16
)

// MaxScale is the largest accepted window scale factor.
const MaxScale = 64

// MaxKeys is the key bitmask with all 16 keys held down.
const MaxKeys = 0xFFFF
