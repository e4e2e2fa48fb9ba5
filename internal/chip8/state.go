package chip8

import "github.com/retroenv/retrochip8/internal/display"

// Register file and timing constants.
const (
	RegisterCount = 16
	StackSize     = 16

	// FlagRegister is the index of VF, the implicit carry, borrow and
	// collision output of arithmetic, shift and draw instructions.
	FlagRegister = 0xF

	// DelayTimerPeriodMs is the period of the 60 Hz timer decay.
	DelayTimerPeriodMs = 1000 / 60
	// InstructionPeriodMs is the period of the 500 Hz instruction issue.
	InstructionPeriodMs = 1000 / 500
)

// State is the complete machine state of a CHIP-8 session. It is owned by
// a single Machine and only mutated by the executor and the clock.
type State struct {
	PC    uint16
	SP    uint8 // number of used stack slots
	Stack [StackSize]uint16
	V     [RegisterCount]uint8
	I     uint16

	DelayTimer uint8
	SoundTimer uint8

	// remainders of elapsed milliseconds not yet converted to ticks
	DelayAccumulator       uint32
	InstructionAccumulator uint32

	Memory [MemorySize]byte

	KeyState      uint16
	KeyStatePrev  uint16
	WaitingForKey bool

	Display display.Surface

	GlyphOffsets [glyphCount]uint16
}

// NewState returns a power-on state with the glyph table loaded and the
// program counter pointing to the start of program space.
func NewState() *State {
	s := &State{
		PC: ProgramStart,
	}
	s.loadGlyphTable()
	return s
}
