package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies a decoded CHIP-8 operation.
type Op uint8

// All CHIP-8 operations, named after the encoding families.
const (
	OpCLS  Op = iota + 1 // 00E0 - CLS
	OpRET                // 00EE - RET
	OpSYS                // 0nnn - SYS addr
	OpJP                 // 1nnn - JP addr
	OpCALL               // 2nnn - CALL addr
	OpSE                 // 3xkk - SE Vx, byte
	OpSNE                // 4xkk - SNE Vx, byte
	OpSE2                // 5xy0 - SE Vx, Vy
	OpLD                 // 6xkk - LD Vx, byte
	OpADD                // 7xkk - ADD Vx, byte
	OpLD2                // 8xy0 - LD Vx, Vy
	OpOR                 // 8xy1 - OR Vx, Vy
	OpAND                // 8xy2 - AND Vx, Vy
	OpXOR                // 8xy3 - XOR Vx, Vy
	OpADD2               // 8xy4 - ADD Vx, Vy
	OpSUB                // 8xy5 - SUB Vx, Vy
	OpSHR                // 8xy6 - SHR Vx {, Vy}
	OpSUBN               // 8xy7 - SUBN Vx, Vy
	OpSHL                // 8xyE - SHL Vx {, Vy}
	OpSNE2               // 9xy0 - SNE Vx, Vy
	OpLDI                // Annn - LD I, addr
	OpJP2                // Bnnn - JP V0, addr
	OpRND                // Cxkk - RND Vx, byte
	OpDRW                // Dxyn - DRW Vx, Vy, nibble
	OpSKP                // Ex9E - SKP Vx
	OpSKNP               // ExA1 - SKNP Vx
	OpLDT                // Fx07 - LD Vx, DT
	OpLDK                // Fx0A - LD Vx, K
	OpLDDT               // Fx15 - LD DT, Vx
	OpLDST               // Fx18 - LD ST, Vx
	OpADDI               // Fx1E - ADD I, Vx
	OpLDF                // Fx29 - LD F, Vx
	OpLDB                // Fx33 - LD B, Vx
	OpLDAI               // Fx55 - LD [I], Vx
	OpLDM                // Fx65 - LD Vx, [I]
)

var opNames = map[Op]string{
	OpCLS: "CLS", OpRET: "RET", OpSYS: "SYS", OpJP: "JP", OpCALL: "CALL",
	OpSE: "SE", OpSNE: "SNE", OpSE2: "SE2", OpLD: "LD", OpADD: "ADD",
	OpLD2: "LD2", OpOR: "OR", OpAND: "AND", OpXOR: "XOR", OpADD2: "ADD2",
	OpSUB: "SUB", OpSHR: "SHR", OpSUBN: "SUBN", OpSHL: "SHL", OpSNE2: "SNE2",
	OpLDI: "LDI", OpJP2: "JP2", OpRND: "RND", OpDRW: "DRW", OpSKP: "SKP",
	OpSKNP: "SKNP", OpLDT: "LDT", OpLDK: "LDK", OpLDDT: "LDDT", OpLDST: "LDST",
	OpADDI: "ADDI", OpLDF: "LDF", OpLDB: "LDB", OpLDAI: "LDAI", OpLDM: "LDM",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Instruction is a decoded instruction word. Only the operand fields used
// by the operation are set, all others are zero.
type Instruction struct {
	Op  Op
	X   uint8  // register index of the x nibble
	Y   uint8  // register index of the y nibble
	N   uint8  // 4 bit sprite height
	KK  uint8  // 8 bit immediate
	NNN uint16 // 12 bit address
}

// Info returns the retrogolib instruction definition of the operation.
// SYS has no definition and returns nil.
func (i Instruction) Info() *chip8cpu.Instruction {
	switch i.Op {
	case OpCLS:
		return chip8cpu.ClsInst
	case OpRET:
		return chip8cpu.RetInst
	case OpJP, OpJP2:
		return chip8cpu.JpInst
	case OpCALL:
		return chip8cpu.CallInst
	case OpSE, OpSE2:
		return chip8cpu.SeInst
	case OpSNE, OpSNE2:
		return chip8cpu.SneInst
	case OpLD, OpLD2, OpLDI, OpLDT, OpLDK, OpLDDT, OpLDST, OpLDF, OpLDB, OpLDAI, OpLDM:
		return chip8cpu.LdInst
	case OpADD, OpADD2, OpADDI:
		return chip8cpu.AddInst
	case OpOR:
		return chip8cpu.OrInst
	case OpAND:
		return chip8cpu.AndInst
	case OpXOR:
		return chip8cpu.XorInst
	case OpSUB:
		return chip8cpu.SubInst
	case OpSUBN:
		return chip8cpu.SubnInst
	case OpSHR:
		return chip8cpu.ShrInst
	case OpSHL:
		return chip8cpu.ShlInst
	case OpRND:
		return chip8cpu.RndInst
	case OpDRW:
		return chip8cpu.DrwInst
	case OpSKP:
		return chip8cpu.SkpInst
	case OpSKNP:
		return chip8cpu.SknpInst
	default:
		return nil
	}
}

// Name returns the assembler mnemonic of the instruction.
func (i Instruction) Name() string {
	if info := i.Info(); info != nil {
		return info.Name
	}
	if i.Op == OpSYS {
		return "sys"
	}
	return ""
}

// IsSkip returns whether the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	info := i.Info()
	return info != nil && chip8cpu.SkipInstructions.Contains(info.Name)
}

// IsJump returns whether the instruction transfers control to its address operand.
func (i Instruction) IsJump() bool {
	return i.Op == OpJP || i.Op == OpCALL
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	params := i.params()
	if params == "" {
		return i.Name()
	}
	return i.Name() + " " + params
}

func (i Instruction) params() string {
	switch i.Op {
	case OpSYS, OpJP, OpCALL:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpSE, OpSNE, OpLD, OpADD, OpRND:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)
	case OpSE2, OpSNE2, OpLD2, OpOR, OpAND, OpXOR, OpADD2, OpSUB, OpSUBN:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpSHR, OpSHL, OpSKP, OpSKNP:
		return fmt.Sprintf("V%X", i.X)
	case OpLDI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpJP2:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpDRW:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpLDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLDK:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLDDT:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLDST:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpADDI:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("B, V%X", i.X)
	case OpLDAI:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLDM:
		return fmt.Sprintf("V%X, [I]", i.X)
	default:
		return ""
	}
}
