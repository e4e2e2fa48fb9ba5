// Package chip8 implements the CHIP-8 interpreter engine: instruction
// decoding and execution, memory range validation and the clock model that
// paces timers and instruction throughput against elapsed wall-clock time.
package chip8

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

// RandomSource provides the random bytes used by the RND instruction.
type RandomSource interface {
	RandomByte() uint8
}

type pcgSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a deterministic random source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

func (p *pcgSource) RandomByte() uint8 {
	return uint8(p.rng.UintN(256))
}

// Option configures a Machine.
type Option func(*Machine)

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) Option {
	return func(m *Machine) {
		m.trace = enabled
	}
}

// WithRandomSource sets the random source used by the RND instruction.
func WithRandomSource(source RandomSource) Option {
	return func(m *Machine) {
		m.random = source
	}
}

// Machine drives a CHIP-8 session. It owns the machine state and advances
// it on every Step call. A Machine is not safe for concurrent use.
type Machine struct {
	logger *log.Logger
	random RandomSource
	trace  bool

	state   *State
	program []byte
	fault   *Fault
}

// New returns a machine in power-on state.
func New(logger *log.Logger, opts ...Option) *Machine {
	m := &Machine{
		logger: logger,
		state:  NewState(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.random == nil {
		m.random = NewRandomSource(uint64(time.Now().UnixNano()))
	}
	return m
}

// LoadProgram writes the program into memory starting at the program
// start address. The program size has to be even and fit into memory.
func (m *Machine) LoadProgram(program []byte) error {
	if err := m.state.loadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	m.program = slices.Clone(program)

	m.logger.Debug("Program loaded",
		log.Int("size", len(program)),
		log.Hex("start", uint16(ProgramStart)))
	return nil
}

// Reset restores the power-on state and reloads the last loaded program.
func (m *Machine) Reset() error {
	m.state = NewState()
	m.fault = nil
	if err := m.state.loadProgram(m.program); err != nil {
		return fmt.Errorf("reloading program: %w", err)
	}
	m.logger.Debug("Machine reset")
	return nil
}

// SetKeyPressed updates the pressed state of a single key.
func (m *Machine) SetKeyPressed(key uint8, pressed bool) error {
	return m.state.SetKeyPressed(key, pressed)
}

// SetKeyState replaces the complete key state bitmask, bit n is key n.
func (m *Machine) SetKeyState(mask uint16) {
	m.state.KeyState = mask
}

// Step advances the machine by the elapsed milliseconds since the previous
// call. It updates the timers and executes all instructions that are due.
// After a fault the machine is halted and Step returns ErrHalted.
func (m *Machine) Step(deltaMs uint32) error {
	if m.fault != nil {
		return ErrHalted
	}

	count := m.state.advanceClock(deltaMs)
	for range count {
		wasWaiting := m.state.WaitingForKey
		if err := m.executeNext(); err != nil {
			return err
		}
		// while blocked on a key read only one poll per frame is needed
		if wasWaiting && m.state.WaitingForKey {
			break
		}
	}
	return nil
}

// StepInstruction executes a single instruction without advancing the
// clock.
func (m *Machine) StepInstruction() error {
	if m.fault != nil {
		return ErrHalted
	}
	return m.executeNext()
}

// executeNext fetches, decodes and executes the instruction at the program
// counter and advances the program counter if needed.
func (m *Machine) executeNext() error {
	s := m.state
	pc := s.PC

	word, err := s.fetch()
	if err != nil {
		return m.halt(&Fault{PC: pc, Err: err})
	}

	ins, err := Decode(word)
	if err != nil {
		return m.halt(&Fault{PC: pc, Word: word, Err: err})
	}

	if m.trace {
		m.logger.Debug("Execute",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.String("instruction", ins.String()))
	}

	if err := s.execute(ins, m.random); err != nil {
		return m.halt(&Fault{PC: pc, Word: word, Err: err})
	}

	// an instruction that leaves PC unchanged falls through to the next one,
	// this includes a jump to its own address
	if s.PC == pc && !s.WaitingForKey {
		s.PC += 2
	}
	s.KeyStatePrev = s.KeyState
	return nil
}

func (m *Machine) halt(fault *Fault) error {
	m.fault = fault
	m.logger.Debug("Machine halted", log.Err(fault))
	return fault
}

// Fault returns the fault that halted the machine, or nil.
func (m *Machine) Fault() *Fault {
	return m.fault
}

// Pixel returns whether the display pixel at x (0-63) and y (0-31) is lit.
func (m *Machine) Pixel(x, y int) bool {
	return m.state.Display.Pixel(x, y)
}

// Display returns the display surface. It must be treated as read-only.
func (m *Machine) Display() *display.Surface {
	return &m.state.Display
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() uint8 {
	return m.state.SoundTimer
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.state.DelayTimer
}

// WaitingForKey returns whether execution is blocked on a key read.
func (m *Machine) WaitingForKey() bool {
	return m.state.WaitingForKey
}

// State returns the machine state for inspection.
func (m *Machine) State() *State {
	return m.state
}
