package chip8

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/display"
)

// execute applies the decoded instruction to the state.
func (s *State) execute(ins Instruction, rnd RandomSource) error {
	switch ins.Op {
	case OpCLS:
		s.Display.Clear()
	case OpRET:
		return s.executeRet()
	case OpSYS:
		// legacy machine code call, not supported
	case OpJP:
		return s.jump(ins.NNN)
	case OpCALL:
		return s.executeCall(ins.NNN)
	case OpSE:
		s.skipIf(s.V[ins.X] == ins.KK)
	case OpSNE:
		s.skipIf(s.V[ins.X] != ins.KK)
	case OpSE2:
		s.skipIf(s.V[ins.X] == s.V[ins.Y])
	case OpSNE2:
		s.skipIf(s.V[ins.X] != s.V[ins.Y])
	case OpLD:
		s.V[ins.X] = ins.KK
	case OpADD:
		s.V[ins.X] += ins.KK
	case OpLD2:
		s.V[ins.X] = s.V[ins.Y]
	case OpOR:
		s.V[ins.X] |= s.V[ins.Y]
	case OpAND:
		s.V[ins.X] &= s.V[ins.Y]
	case OpXOR:
		s.V[ins.X] ^= s.V[ins.Y]
	case OpADD2:
		s.executeAdd2(ins.X, ins.Y)
	case OpSUB:
		vx, vy := s.V[ins.X], s.V[ins.Y]
		s.V[ins.X] = vx - vy
		s.V[FlagRegister] = flag(vx > vy)
	case OpSUBN:
		vx, vy := s.V[ins.X], s.V[ins.Y]
		s.V[ins.X] = vy - vx
		s.V[FlagRegister] = flag(vy > vx)
	case OpSHR:
		vx := s.V[ins.X]
		s.V[ins.X] = vx >> 1
		s.V[FlagRegister] = vx & 0x01
	case OpSHL:
		vx := s.V[ins.X]
		s.V[ins.X] = vx << 1
		s.V[FlagRegister] = (vx >> 7) & 0x01
	case OpLDI:
		s.I = ins.NNN
	case OpJP2:
		return s.jump(ins.NNN + uint16(s.V[0]))
	case OpRND:
		s.V[ins.X] = rnd.RandomByte() & ins.KK
	case OpDRW:
		return s.executeDraw(ins.X, ins.Y, ins.N)
	case OpSKP:
		pressed, err := s.IsKeyPressed(s.V[ins.X])
		if err != nil {
			return err
		}
		s.skipIf(pressed)
	case OpSKNP:
		pressed, err := s.IsKeyPressed(s.V[ins.X])
		if err != nil {
			return err
		}
		s.skipIf(!pressed)
	case OpLDT:
		s.V[ins.X] = s.DelayTimer
	case OpLDK:
		s.executeWaitForKey(ins.X)
	case OpLDDT:
		s.DelayTimer = s.V[ins.X]
	case OpLDST:
		s.SoundTimer = s.V[ins.X]
	case OpADDI:
		return s.executeAddIndex(ins.X)
	case OpLDF:
		digit := s.V[ins.X]
		if digit > 0xF {
			return fmt.Errorf("%w: $%02X", ErrInvalidDigit, digit)
		}
		s.I = s.GlyphOffsets[digit]
	case OpLDB:
		return s.executeStoreBCD(ins.X)
	case OpLDAI:
		return s.executeStoreRegisters(ins.X)
	case OpLDM:
		return s.executeLoadRegisters(ins.X)
	default:
		return fmt.Errorf("%w: operation %s", ErrUnknownOpcode, ins.Op)
	}
	return nil
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}

// skipIf skips the next instruction if the condition is true.
func (s *State) skipIf(condition bool) {
	if condition {
		s.PC += 4
	}
}

// jump sets the program counter to an even, executable address.
func (s *State) jump(address uint16) error {
	if address%2 != 0 {
		return fmt.Errorf("%w: $%04X", ErrMisalignedAddress, address)
	}
	if err := checkRange(address, 2, Execute); err != nil {
		return err
	}
	s.PC = address
	return nil
}

func (s *State) executeRet() error {
	if s.SP == 0 {
		return ErrStackUnderflow
	}
	if err := s.jump(s.Stack[s.SP-1] + 2); err != nil {
		return err
	}
	s.SP--
	return nil
}

func (s *State) executeCall(address uint16) error {
	if s.SP >= StackSize {
		return fmt.Errorf("%w: %d entries", ErrStackOverflow, s.SP)
	}
	returnAddress := s.PC
	if err := s.jump(address); err != nil {
		return err
	}
	s.Stack[s.SP] = returnAddress
	s.SP++
	return nil
}

func (s *State) executeAdd2(x, y uint8) {
	sum := uint16(s.V[x]) + uint16(s.V[y])
	s.V[x] = uint8(sum)
	s.V[FlagRegister] = flag(sum > 0xFF)
}

// executeDraw XORs an 8 pixel wide sprite of the given height from memory
// at I onto the display. VF is set if a lit pixel got erased.
func (s *State) executeDraw(x, y, height uint8) error {
	if height == 0 {
		s.V[FlagRegister] = 0
		return nil
	}
	if err := checkRange(s.I, uint16(height), Read); err != nil {
		return err
	}

	originX := int(s.V[x])
	originY := int(s.V[y])
	var collision bool

	for row := range int(height) {
		line := s.Memory[int(s.I)+row]
		py := (originY + row) % display.Height

		for bit := range 8 {
			if line&(0x80>>bit) == 0 {
				continue
			}
			px := (originX + bit) % display.Width
			lit := s.Display.Pixel(px, py)
			if lit {
				collision = true
			}
			s.Display.SetPixel(px, py, !lit)
		}
	}

	s.V[FlagRegister] = flag(collision)
	return nil
}

// executeWaitForKey implements the blocking key read. The first execution
// starts waiting, following executions complete once a key got pressed
// since the previous instruction.
func (s *State) executeWaitForKey(x uint8) {
	if !s.WaitingForKey {
		s.WaitingForKey = true
		return
	}

	key, ok := newlyPressedKey(s.KeyState, s.KeyStatePrev)
	if !ok {
		return
	}
	s.V[x] = key
	s.WaitingForKey = false
}

func (s *State) executeAddIndex(x uint8) error {
	sum := uint32(s.I) + uint32(s.V[x])
	if sum > 0xFFFF {
		return fmt.Errorf("%w: $%04X + $%02X", ErrIndexOverflow, s.I, s.V[x])
	}
	s.I = uint16(sum)
	return nil
}

// executeStoreBCD writes the hundreds, tens and ones digits of Vx to I.
func (s *State) executeStoreBCD(x uint8) error {
	if err := checkRange(s.I, 3, Write); err != nil {
		return err
	}
	value := s.V[x]
	s.Memory[s.I] = value / 100
	s.Memory[s.I+1] = value / 10 % 10
	s.Memory[s.I+2] = value % 10
	return nil
}

// executeStoreRegisters copies V0..Vx to memory starting at I.
func (s *State) executeStoreRegisters(x uint8) error {
	count := uint16(x) + 1
	if err := checkRange(s.I, count, Write); err != nil {
		return err
	}
	copy(s.Memory[s.I:s.I+count], s.V[:count])
	return nil
}

// executeLoadRegisters copies memory starting at I to V0..Vx.
func (s *State) executeLoadRegisters(x uint8) error {
	count := uint16(x) + 1
	if err := checkRange(s.I, count, Read); err != nil {
		return err
	}
	copy(s.V[:count], s.Memory[s.I:s.I+count])
	return nil
}
