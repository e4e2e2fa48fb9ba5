package chip8

import (
	"errors"
	"fmt"
)

// Program faults, raised by malformed CHIP-8 bytecode.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrInvalidAddress    = errors.New("invalid memory address range")
	ErrMisalignedAddress = errors.New("misaligned jump target")
	ErrStackOverflow     = errors.New("call stack overflow")
	ErrStackUnderflow    = errors.New("call stack underflow")
	ErrInvalidKey        = errors.New("invalid key")
	ErrInvalidDigit      = errors.New("invalid hexadecimal digit")
	ErrIndexOverflow     = errors.New("index register overflow")
)

// Host misuse errors.
var (
	ErrProgramOddSize  = errors.New("program size is not a multiple of 2")
	ErrProgramTooLarge = errors.New("program does not fit into memory")
)

// Internal errors.
var (
	ErrInvalidRangeSize = errors.New("memory range size must be greater than 0")
	ErrHalted           = errors.New("machine is halted after a fault")
)

// Fault describes a program fault raised while executing an instruction.
type Fault struct {
	PC   uint16 // address of the faulting instruction
	Word uint16 // raw instruction word
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at $%03X executing $%04X: %v", f.PC, f.Word, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
