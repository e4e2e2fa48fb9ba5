package chip8

import "fmt"

// CHIP-8 memory layout.
//
//	0x000-0x1FF: glyph table, reserved for the interpreter
//	0x200-0xFFF: program space
const (
	MemorySize   = 0x1000
	ProgramStart = 0x200
	MaxAddress   = 0xFFF

	// MaxProgramSize is the largest program that fits into program space.
	MaxProgramSize = MaxAddress - ProgramStart + 1
)

const (
	glyphTableOffset = 0x000
	glyphCount       = 16
	glyphSize        = 5
)

// glyphTable contains the 4x5 sprites of the hexadecimal digits 0-F.
var glyphTable = [glyphCount * glyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Usage describes how a memory range is going to be accessed.
type Usage int

const (
	Read Usage = iota
	Write
	Execute
)

func (u Usage) String() string {
	switch u {
	case Read:
		return "read"
	case Write:
		return "write"
	case Execute:
		return "execute"
	default:
		return fmt.Sprintf("usage(%d)", int(u))
	}
}

// ValidRange returns whether the memory range starting at base with the
// given size can be accessed for the given usage. Reads may touch the whole
// address space, writes and execution are limited to program space.
func ValidRange(base, size uint16, usage Usage) (bool, error) {
	if size == 0 {
		return false, ErrInvalidRangeSize
	}

	end := base + (size - 1)
	if end < base {
		return false, nil // overflow
	}
	if end > MaxAddress {
		return false, nil
	}

	switch usage {
	case Read:
		return true, nil
	case Write, Execute:
		return base >= ProgramStart, nil
	default:
		return false, fmt.Errorf("unsupported memory usage %d", int(usage))
	}
}

// checkRange returns an ErrInvalidAddress based error if the range can not
// be accessed for the given usage.
func checkRange(base, size uint16, usage Usage) error {
	ok, err := ValidRange(base, size, usage)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s of %d bytes at $%04X", ErrInvalidAddress, usage, size, base)
	}
	return nil
}

// loadGlyphTable copies the glyph sprites into reserved memory and records
// the address of every glyph.
func (s *State) loadGlyphTable() {
	copy(s.Memory[glyphTableOffset:], glyphTable[:])
	for i := range glyphCount {
		s.GlyphOffsets[i] = uint16(glyphTableOffset + i*glyphSize)
	}
}

// loadProgram writes the program verbatim into program space.
func (s *State) loadProgram(program []byte) error {
	if len(program)%2 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrProgramOddSize, len(program))
	}
	if len(program) == 0 {
		return nil
	}
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	ok, err := ValidRange(ProgramStart, uint16(len(program)), Write)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d bytes", ErrProgramTooLarge, len(program))
	}

	copy(s.Memory[ProgramStart:], program)
	return nil
}

// fetch reads the big-endian instruction word at the program counter.
func (s *State) fetch() (uint16, error) {
	if s.PC%2 != 0 {
		return 0, fmt.Errorf("%w: program counter $%04X", ErrMisalignedAddress, s.PC)
	}
	if err := checkRange(s.PC, 2, Execute); err != nil {
		return 0, err
	}
	return uint16(s.Memory[s.PC])<<8 | uint16(s.Memory[s.PC+1]), nil
}
