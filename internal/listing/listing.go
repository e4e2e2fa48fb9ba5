// Package listing writes CHIP-8 programs as assembler source listings.
// Code is found by following the control flow from the program start, all
// bytes that are not reached are written as data.
package listing

import (
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

const (
	startLabel  = "Start"
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"

	dataBytesPerLine = 8
)

// Options controls the listing output.
type Options struct {
	HexComments    bool // output instruction bytes as hex values in comments
	OffsetComments bool // output memory addresses in comments
}

// DefaultOptions enables all comments.
var DefaultOptions = Options{
	HexComments:    true,
	OffsetComments: true,
}

type offsetType uint8

const (
	unknownOffset offsetType = iota
	codeOffset
	codeOperandOffset // second byte of an instruction
	dataOffset
)

type referenceType uint8

const (
	noReference referenceType = iota
	dataReference
	jumpReference
	callReference
)

type offset struct {
	typ         offsetType
	reference   referenceType
	label       string
	instruction chip8.Instruction
}

// Listing disassembles a single program.
type Listing struct {
	logger  *log.Logger
	options Options

	program []byte
	offsets []offset
	queue   []uint16
}

// New returns a new listing writer.
func New(logger *log.Logger, options Options) *Listing {
	return &Listing{
		logger:  logger,
		options: options,
	}
}

// Write disassembles the program and writes the listing to the writer.
func (l *Listing) Write(writer io.Writer, program []byte) error {
	if len(program) > chip8.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", chip8.ErrProgramTooLarge, len(program), chip8.MaxProgramSize)
	}

	l.program = program
	l.offsets = make([]offset, len(program))
	l.queue = l.queue[:0]

	l.trace()
	l.assignLabels()

	if err := l.write(writer); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// trace follows the control flow starting at the program start address and
// marks all reached instructions as code.
func (l *Listing) trace() {
	l.addAddressToParse(chip8.ProgramStart)

	var instructions int
	for len(l.queue) > 0 {
		address := l.queue[0]
		l.queue = l.queue[1:]
		if l.processAddress(address) {
			instructions++
		}
	}

	l.logger.Debug("Program traced",
		log.Int("size", len(l.program)),
		log.Int("instructions", instructions))
}

func (l *Listing) addAddressToParse(address uint16) {
	if !l.inProgram(address) || address%2 != 0 {
		return
	}
	l.queue = append(l.queue, address)
}

// processAddress decodes the instruction at the given address and queues
// all addresses that the instruction can continue execution at. It returns
// whether a new instruction was found.
func (l *Listing) processAddress(address uint16) bool {
	index := int(address - chip8.ProgramStart)
	if index+1 >= len(l.program) {
		return false
	}
	if l.offsets[index].typ != unknownOffset || l.offsets[index+1].typ != unknownOffset {
		return false
	}

	word := uint16(l.program[index])<<8 | uint16(l.program[index+1])
	ins, err := chip8.Decode(word)
	if err != nil {
		// consider an unknown instruction as start of data
		l.logger.Debug("Unknown instruction", log.Hex("address", address), log.Hex("opcode", word))
		return false
	}

	l.offsets[index].typ = codeOffset
	l.offsets[index].instruction = ins
	l.offsets[index+1].typ = codeOperandOffset

	l.handleControlFlow(address, ins)
	return true
}

func (l *Listing) handleControlFlow(address uint16, ins chip8.Instruction) {
	next := address + 2

	switch {
	case ins.Op == chip8.OpJP:
		l.addReference(ins.NNN, jumpReference)
		l.addAddressToParse(ins.NNN)
		if ins.NNN == address {
			// a jump to itself continues with the next instruction
			l.addAddressToParse(next)
		}

	case ins.Op == chip8.OpCALL:
		l.addReference(ins.NNN, callReference)
		l.addAddressToParse(ins.NNN)
		l.addAddressToParse(next)

	case ins.IsSkip():
		l.addAddressToParse(next)
		l.addAddressToParse(next + 2)

	case ins.Op == chip8.OpLDI:
		l.addReference(ins.NNN, dataReference)
		l.addAddressToParse(next)

	case ins.Op == chip8.OpRET, ins.Op == chip8.OpJP2:
		// the target of an indexed jump is not known statically

	default:
		l.addAddressToParse(next)
	}
}

// addReference records a reference to an address inside the program, a
// call reference takes precedence over a jump reference which takes
// precedence over a data reference.
func (l *Listing) addReference(address uint16, reference referenceType) {
	if !l.inProgram(address) {
		return
	}
	off := &l.offsets[address-chip8.ProgramStart]
	off.reference = max(off.reference, reference)
}

func (l *Listing) inProgram(address uint16) bool {
	return address >= chip8.ProgramStart && int(address-chip8.ProgramStart) < len(l.program)
}

// assignLabels names all referenced offsets and marks all bytes that were
// not reached as code as data.
func (l *Listing) assignLabels() {
	for i := range l.offsets {
		off := &l.offsets[i]
		if off.typ == unknownOffset {
			off.typ = dataOffset
		}

		address := chip8.ProgramStart + uint16(i)
		switch {
		case off.typ == codeOperandOffset:
			// references into the middle of an instruction stay numeric
		case i == 0:
			off.label = startLabel
		case off.reference == callReference:
			off.label = fmt.Sprintf(funcNaming, address)
		case off.reference == jumpReference:
			off.label = fmt.Sprintf(labelNaming, address)
		case off.reference == dataReference:
			off.label = fmt.Sprintf(dataNaming, address)
		}
	}
}

// labelOf returns the label of the given address, if the address is
// inside the program and has a label.
func (l *Listing) labelOf(address uint16) (string, bool) {
	if !l.inProgram(address) {
		return "", false
	}
	label := l.offsets[address-chip8.ProgramStart].label
	return label, label != ""
}

// code returns the assembler text of an instruction, using labels for
// address operands that point into the program.
func (l *Listing) code(ins chip8.Instruction) string {
	switch ins.Op {
	case chip8.OpJP, chip8.OpCALL:
		if label, ok := l.labelOf(ins.NNN); ok {
			return ins.Name() + " " + label
		}
	case chip8.OpLDI:
		if label, ok := l.labelOf(ins.NNN); ok {
			return ins.Name() + " I, " + label
		}
	default:
	}
	return ins.String()
}
