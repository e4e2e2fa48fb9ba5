package chip8

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestExecute_Add2(t *testing.T) {
	tests := []struct {
		name   string
		v0, v1 uint8
		sum    uint8
		flag   uint8
	}{
		{"overflow", 128, 130, 2, 1},
		{"no overflow", 8, 8, 16, 0},
		{"exact maximum", 0xFE, 0x01, 0xFF, 0},
		{"wrap to zero", 0xFF, 0x01, 0x00, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, 0x8014)
			m.State().V[0] = tt.v0
			m.State().V[1] = tt.v1

			stepN(t, m, 1)
			assert.Equal(t, tt.sum, m.State().V[0])
			assert.Equal(t, tt.flag, m.State().V[FlagRegister])
			assert.Equal(t, uint16(0x202), m.State().PC)
		})
	}
}

func TestExecute_Subtraction(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		v0, v1 uint8
		result uint8
		flag   uint8
	}{
		{"sub without borrow", 0x8015, 10, 3, 7, 1},
		{"sub with borrow", 0x8015, 3, 10, 249, 0},
		{"sub equal values", 0x8015, 5, 5, 0, 0},
		{"subn without borrow", 0x8017, 3, 10, 7, 1},
		{"subn with borrow", 0x8017, 10, 3, 249, 0},
		{"subn equal values", 0x8017, 5, 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.State().V[0] = tt.v0
			m.State().V[1] = tt.v1

			stepN(t, m, 1)
			assert.Equal(t, tt.result, m.State().V[0])
			assert.Equal(t, tt.flag, m.State().V[FlagRegister])
		})
	}
}

func TestExecute_ShiftRight(t *testing.T) {
	m := newTestMachine(t, 0x6008, 0x8016, 0x8016, 0x8016, 0x8016)
	stepN(t, m, 1)

	expected := []struct{ value, flag uint8 }{
		{4, 0}, {2, 0}, {1, 0}, {0, 1},
	}
	for _, want := range expected {
		stepN(t, m, 1)
		assert.Equal(t, want.value, m.State().V[0])
		assert.Equal(t, want.flag, m.State().V[FlagRegister])
	}
}

func TestExecute_ShiftLeft(t *testing.T) {
	m := newTestMachine(t, 0x60C1, 0x801E, 0x801E)

	stepN(t, m, 2)
	assert.Equal(t, uint8(0x82), m.State().V[0])
	assert.Equal(t, uint8(1), m.State().V[FlagRegister])

	stepN(t, m, 1)
	assert.Equal(t, uint8(0x04), m.State().V[0])
	assert.Equal(t, uint8(1), m.State().V[FlagRegister])
}

func TestExecute_FlagRegisterAsDestination(t *testing.T) {
	m := newTestMachine(t, 0x8F14)
	m.State().V[0xF] = 200
	m.State().V[1] = 100

	stepN(t, m, 1)
	assert.Equal(t, uint8(1), m.State().V[FlagRegister])
}

func TestExecute_LoadAndBitwise(t *testing.T) {
	m := newTestMachine(t,
		0x603C, // ld V0, $3C
		0x610F, // ld V1, $0F
		0x8200, // ld V2, V0
		0x8211, // or V2, V1
		0x8301, // ld V3, V0
		0x8312, // and V3, V1
		0x8401, // ld V4, V0
		0x8413, // xor V4, V1
		0x75FF, // add V5, $FF
		0x7502, // add V5, $02
	)
	stepN(t, m, 10)

	s := m.State()
	assert.Equal(t, uint8(0x3C), s.V[0])
	assert.Equal(t, uint8(0x0F), s.V[1])
	assert.Equal(t, uint8(0x3F), s.V[2])
	assert.Equal(t, uint8(0x0C), s.V[3])
	assert.Equal(t, uint8(0x33), s.V[4])
	assert.Equal(t, uint8(0x01), s.V[5])
	assert.Equal(t, uint8(0), s.V[FlagRegister])
	assert.Equal(t, uint16(0x214), s.PC)
}

func TestExecute_Skips(t *testing.T) {
	tests := []struct {
		name   string
		word   uint16
		v0, v1 uint8
		skip   bool
	}{
		{"se equal", 0x3005, 5, 0, true},
		{"se not equal", 0x3005, 6, 0, false},
		{"sne equal", 0x4005, 5, 0, false},
		{"sne not equal", 0x4005, 6, 0, true},
		{"se2 equal", 0x5010, 7, 7, true},
		{"se2 not equal", 0x5010, 7, 8, false},
		{"sne2 equal", 0x9010, 7, 7, false},
		{"sne2 not equal", 0x9010, 7, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.word)
			m.State().V[0] = tt.v0
			m.State().V[1] = tt.v1

			stepN(t, m, 1)
			want := uint16(0x202)
			if tt.skip {
				want = 0x204
			}
			assert.Equal(t, want, m.State().PC)
		})
	}
}

func TestExecute_KeySkips(t *testing.T) {
	m := newTestMachine(t, 0x6003, 0xE09E, 0x0000, 0xE0A1, 0x0000, 0xE0A1)
	assert.NoError(t, m.SetKeyPressed(3, true))

	stepN(t, m, 2)
	assert.Equal(t, uint16(0x206), m.State().PC)

	stepN(t, m, 1)
	assert.Equal(t, uint16(0x208), m.State().PC)

	assert.NoError(t, m.SetKeyPressed(3, false))
	stepN(t, m, 2)
	assert.Equal(t, uint16(0x20E), m.State().PC)
}

func TestExecute_KeySkipInvalidKey(t *testing.T) {
	m := newTestMachine(t, 0x6010, 0xE09E)
	stepN(t, m, 1)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestExecute_CallReturn(t *testing.T) {
	m := newTestMachine(t,
		0x2206, // 0x200: call $206
		0x6001, // 0x202: ld V0, $01
		0x1204, // 0x204: jp $204
		0x6102, // 0x206: ld V1, $02
		0x00EE, // 0x208: ret
	)
	s := m.State()

	stepN(t, m, 1)
	assert.Equal(t, uint16(0x206), s.PC)
	assert.Equal(t, uint8(1), s.SP)
	assert.Equal(t, uint16(0x200), s.Stack[0])

	stepN(t, m, 2)
	assert.Equal(t, uint16(0x202), s.PC)
	assert.Equal(t, uint8(0), s.SP)

	stepN(t, m, 2)
	assert.Equal(t, uint8(1), s.V[0])
	assert.Equal(t, uint8(2), s.V[1])
	// a jump that leaves PC unchanged advances like any other instruction
	assert.Equal(t, uint16(0x206), s.PC)
}

func TestExecute_StackOverflow(t *testing.T) {
	m := newTestMachine(t, 0x2200)
	stepN(t, m, StackSize)
	assert.Equal(t, uint8(StackSize), m.State().SP)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.Equal(t, uint8(StackSize), m.State().SP)
}

func TestExecute_StackUnderflow(t *testing.T) {
	m := newTestMachine(t, 0x00EE)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrStackUnderflow))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x00EE), fault.Word)
}

func TestExecute_Jumps(t *testing.T) {
	tests := []struct {
		name    string
		words   []uint16
		v0      uint8
		wantPC  uint16
		wantErr error
	}{
		{"jump", []uint16{0x1300}, 0, 0x300, nil},
		{"jump to itself falls through", []uint16{0x1200}, 0, 0x202, nil},
		{"jump with offset to itself falls through", []uint16{0xB200}, 0, 0x202, nil},
		{"jump misaligned", []uint16{0x1301}, 0, 0x200, ErrMisalignedAddress},
		{"jump into glyph area", []uint16{0x1100}, 0, 0x200, ErrInvalidAddress},
		{"jump to last instruction", []uint16{0x1FFE}, 0, 0xFFE, nil},
		{"jump with offset", []uint16{0xB300}, 4, 0x304, nil},
		{"jump with misaligned offset", []uint16{0xB300}, 3, 0x200, ErrMisalignedAddress},
		{"jump with offset past memory", []uint16{0xBFFE}, 2, 0x200, ErrInvalidAddress},
		{"call misaligned", []uint16{0x2203}, 0, 0x200, ErrMisalignedAddress},
		{"call into glyph area", []uint16{0x2000}, 0, 0x200, ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMachine(t, tt.words...)
			m.State().V[0] = tt.v0

			err := m.StepInstruction()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantPC, m.State().PC)
			assert.Equal(t, uint8(0), m.State().SP)
		})
	}
}

func TestExecute_SysIsIgnored(t *testing.T) {
	m := newTestMachine(t, 0x0123)
	stepN(t, m, 1)
	assert.Equal(t, uint16(0x202), m.State().PC)
}

func TestExecute_IndexOperations(t *testing.T) {
	m := newTestMachine(t,
		0xA300, // ld I, $300
		0x6010, // ld V0, $10
		0xF01E, // add I, V0
		0x610A, // ld V1, $0A
		0xF129, // ld F, V1
	)

	stepN(t, m, 3)
	assert.Equal(t, uint16(0x310), m.State().I)

	stepN(t, m, 2)
	assert.Equal(t, uint16(0x0A*glyphSize), m.State().I)
}

func TestExecute_AddIndexOverflow(t *testing.T) {
	m := newTestMachine(t, 0xF01E)
	m.State().I = 0xFFFF
	m.State().V[0] = 1

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrIndexOverflow))
	assert.Equal(t, uint16(0xFFFF), m.State().I)
}

func TestExecute_GlyphInvalidDigit(t *testing.T) {
	m := newTestMachine(t, 0x6010, 0xF029)
	stepN(t, m, 1)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrInvalidDigit))
}

func TestExecute_StoreBCD(t *testing.T) {
	tests := []struct {
		value uint8
		want  [3]byte
	}{
		{234, [3]byte{2, 3, 4}},
		{7, [3]byte{0, 0, 7}},
		{100, [3]byte{1, 0, 0}},
		{255, [3]byte{2, 5, 5}},
	}

	for _, tt := range tests {
		m := newTestMachine(t, 0xA300, 0xF033)
		m.State().V[0] = tt.value

		stepN(t, m, 2)
		mem := m.State().Memory
		assert.Equal(t, tt.want, [3]byte{mem[0x300], mem[0x301], mem[0x302]})
	}
}

func TestExecute_StoreBCDIntoReservedMemory(t *testing.T) {
	m := newTestMachine(t, 0xA100, 0xF033)
	stepN(t, m, 1)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestExecute_StoreAndLoadRegisters(t *testing.T) {
	m := newTestMachine(t,
		0x6011, 0x6122, 0x6233, 0x6344,
		0xA300, // ld I, $300
		0xF255, // ld [I], V2
		0x6000, 0x6100, 0x6200,
		0xF265, // ld V2, [I]
	)

	stepN(t, m, 6)
	mem := m.State().Memory
	assert.Equal(t, byte(0x11), mem[0x300])
	assert.Equal(t, byte(0x22), mem[0x301])
	assert.Equal(t, byte(0x33), mem[0x302])
	assert.Equal(t, byte(0x00), mem[0x303])
	assert.Equal(t, uint16(0x300), m.State().I)

	stepN(t, m, 4)
	s := m.State()
	assert.Equal(t, uint8(0x11), s.V[0])
	assert.Equal(t, uint8(0x22), s.V[1])
	assert.Equal(t, uint8(0x33), s.V[2])
	assert.Equal(t, uint8(0x44), s.V[3])
}

func TestExecute_LoadRegistersFromGlyphArea(t *testing.T) {
	m := newTestMachine(t, 0xA000, 0xF465)
	stepN(t, m, 2)

	s := m.State()
	assert.Equal(t, uint8(0xF0), s.V[0])
	assert.Equal(t, uint8(0x90), s.V[1])
	assert.Equal(t, uint8(0xF0), s.V[4])
}

func TestExecute_RegistersOutOfMemory(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xFF65)
	stepN(t, m, 1)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestExecute_Random(t *testing.T) {
	m := newTestMachine(t, 0xC00F, 0xC1A5)
	stepN(t, m, 2)

	assert.Equal(t, uint8(0x0F), m.State().V[0])
	assert.Equal(t, uint8(0xA5), m.State().V[1])
}

func TestExecute_Timers(t *testing.T) {
	m := newTestMachine(t,
		0x6020, // ld V0, $20
		0xF015, // ld DT, V0
		0xF107, // ld V1, DT
		0xF018, // ld ST, V0
	)
	stepN(t, m, 4)

	s := m.State()
	assert.Equal(t, uint8(0x20), s.DelayTimer)
	assert.Equal(t, uint8(0x20), s.V[1])
	assert.Equal(t, uint8(0x20), s.SoundTimer)
}

func TestExecute_DrawGlyph(t *testing.T) {
	m := newTestMachine(t,
		0x6100, // ld V1, $00
		0xF129, // ld F, V1
		0xD115, // drw V1, V1, $5
		0xD115, // drw V1, V1, $5
		0x00E0, // cls
	)

	stepN(t, m, 3)
	surface := m.Display()
	assert.Equal(t, 14, surface.LitPixels())
	assert.Equal(t, uint8(0), m.State().V[FlagRegister])
	assert.True(t, m.Pixel(0, 0))
	assert.True(t, m.Pixel(3, 0))
	assert.False(t, m.Pixel(4, 0))
	assert.False(t, m.Pixel(1, 1))

	stepN(t, m, 1)
	assert.Equal(t, 0, surface.LitPixels())
	assert.Equal(t, uint8(1), m.State().V[FlagRegister])

	surface.SetPixel(10, 10, true)
	stepN(t, m, 1)
	assert.Equal(t, 0, surface.LitPixels())
}

func TestExecute_DrawWrapsAround(t *testing.T) {
	m := newTestMachine(t,
		0x603E, // ld V0, 62
		0x611F, // ld V1, 31
		0xA300, // ld I, $300
		0xD012, // drw V0, V1, $2
	)
	m.State().Memory[0x300] = 0xFF
	m.State().Memory[0x301] = 0x80

	stepN(t, m, 4)
	assert.True(t, m.Pixel(62, 31))
	assert.True(t, m.Pixel(63, 31))
	assert.True(t, m.Pixel(0, 31))
	assert.True(t, m.Pixel(5, 31))
	assert.False(t, m.Pixel(6, 31))
	assert.True(t, m.Pixel(62, 0))
	assert.False(t, m.Pixel(63, 0))
	assert.Equal(t, 9, m.Display().LitPixels())
	assert.Equal(t, uint8(0), m.State().V[FlagRegister])
}

func TestExecute_DrawCollisionOnlyWhenPixelErased(t *testing.T) {
	m := newTestMachine(t,
		0xA300, // ld I, $300
		0xD001, // drw V0, V0, $1
		0xA301, // ld I, $301
		0xD001, // drw V0, V0, $1
	)
	m.State().Memory[0x300] = 0xF0
	m.State().Memory[0x301] = 0x0F

	stepN(t, m, 4)
	assert.Equal(t, uint8(0), m.State().V[FlagRegister])
	assert.Equal(t, 8, m.Display().LitPixels())
}

func TestExecute_DrawOutOfMemory(t *testing.T) {
	m := newTestMachine(t, 0xAFFE, 0xD005)
	stepN(t, m, 1)

	err := m.StepInstruction()
	assert.True(t, errors.Is(err, ErrInvalidAddress))
	assert.Equal(t, 0, m.Display().LitPixels())
}
