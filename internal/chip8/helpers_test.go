package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type fixedRandom uint8

func (f fixedRandom) RandomByte() uint8 {
	return uint8(f)
}

// assemble encodes instruction words as big-endian program bytes.
func assemble(words ...uint16) []byte {
	program := make([]byte, 0, 2*len(words))
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

func newTestMachine(t *testing.T, words ...uint16) *Machine {
	t.Helper()

	m := New(log.NewTestLogger(t), WithRandomSource(fixedRandom(0xFF)), WithTrace(true))
	assert.NoError(t, m.LoadProgram(assemble(words...)))
	return m
}

// stepN executes n single instructions and fails the test on any error.
func stepN(t *testing.T, m *Machine, n int) {
	t.Helper()

	for range n {
		assert.NoError(t, m.StepInstruction())
	}
}
