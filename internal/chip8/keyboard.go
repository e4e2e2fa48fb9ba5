package chip8

import (
	"fmt"
	"math/bits"
)

// KeyCount is the number of keys of the CHIP-8 keypad.
//
// Original keypad layout:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
const KeyCount = 16

// IsKeyPressed returns whether the key is pressed in the current key state.
func (s *State) IsKeyPressed(key uint8) (bool, error) {
	if key >= KeyCount {
		return false, fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	return s.KeyState&(1<<key) != 0, nil
}

// SetKeyPressed updates a single key of the current key state.
func (s *State) SetKeyPressed(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	mask := uint16(1) << key
	if pressed {
		s.KeyState |= mask
	} else {
		s.KeyState &^= mask
	}
	return nil
}

// newlyPressedKey returns the lowest numbered key that changed from
// released to pressed between the two key states.
func newlyPressedKey(current, previous uint16) (uint8, bool) {
	edges := current &^ previous
	if edges == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros16(edges)), true
}
