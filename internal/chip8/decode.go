package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// opcodeOps maps the encoding value of the retrogolib opcode table entries
// to the operation they decode to.
var opcodeOps = map[uint16]Op{
	0x00E0: OpCLS,
	0x00EE: OpRET,
	0x1000: OpJP,
	0x2000: OpCALL,
	0x3000: OpSE,
	0x4000: OpSNE,
	0x5000: OpSE2,
	0x6000: OpLD,
	0x7000: OpADD,
	0x8000: OpLD2,
	0x8001: OpOR,
	0x8002: OpAND,
	0x8003: OpXOR,
	0x8004: OpADD2,
	0x8005: OpSUB,
	0x8006: OpSHR,
	0x8007: OpSUBN,
	0x800E: OpSHL,
	0x9000: OpSNE2,
	0xA000: OpLDI,
	0xB000: OpJP2,
	0xC000: OpRND,
	0xD000: OpDRW,
	0xE09E: OpSKP,
	0xE0A1: OpSKNP,
	0xF007: OpLDT,
	0xF00A: OpLDK,
	0xF015: OpLDDT,
	0xF018: OpLDST,
	0xF01E: OpADDI,
	0xF029: OpLDF,
	0xF033: OpLDB,
	0xF055: OpLDAI,
	0xF065: OpLDM,
}

// Decode maps a raw instruction word to its decoded instruction.
// Encodings that match none of the 35 operations return ErrUnknownOpcode.
func Decode(word uint16) (Instruction, error) {
	nibble := word >> 12

	for _, opcode := range chip8cpu.Opcodes[int(nibble)] {
		if opcode.Info.Mask&word != opcode.Info.Value {
			continue
		}
		if op, ok := opcodeOps[opcode.Info.Value]; ok {
			return newInstruction(op, word), nil
		}
	}

	// encodings without an entry in the opcode table
	switch nibble {
	case 0x0:
		// 00E0 and 00EE are matched above
		return newInstruction(OpSYS, word), nil
	case 0x5:
		// the low nibble of 5xy? and 9xy? is not checked
		return newInstruction(OpSE2, word), nil
	case 0x9:
		return newInstruction(OpSNE2, word), nil
	default:
		return Instruction{}, fmt.Errorf("%w: $%04X", ErrUnknownOpcode, word)
	}
}

// newInstruction extracts the operand fields that the operation uses.
func newInstruction(op Op, word uint16) Instruction {
	x := uint8((word >> 8) & 0x0F)
	y := uint8((word >> 4) & 0x0F)
	ins := Instruction{Op: op}

	switch op {
	case OpSYS, OpJP, OpCALL, OpLDI, OpJP2:
		ins.NNN = word & 0x0FFF
	case OpSE, OpSNE, OpLD, OpADD, OpRND:
		ins.X = x
		ins.KK = uint8(word & 0x00FF)
	case OpSE2, OpSNE2, OpLD2, OpOR, OpAND, OpXOR, OpADD2, OpSUB, OpSHR, OpSUBN, OpSHL:
		ins.X = x
		ins.Y = y
	case OpDRW:
		ins.X = x
		ins.Y = y
		ins.N = uint8(word & 0x000F)
	case OpSKP, OpSKNP, OpLDT, OpLDK, OpLDDT, OpLDST, OpADDI, OpLDF, OpLDB, OpLDAI, OpLDM:
		ins.X = x
	default:
	}
	return ins
}
