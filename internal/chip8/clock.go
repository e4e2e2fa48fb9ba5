package chip8

// advanceClock converts the elapsed milliseconds into delay timer ticks and
// returns the number of instructions that are due. Remainders that do not
// make up a full period are carried over to the next call.
func (s *State) advanceClock(deltaMs uint32) uint32 {
	s.DelayAccumulator += deltaMs
	ticks := s.DelayAccumulator / DelayTimerPeriodMs
	s.DelayAccumulator %= DelayTimerPeriodMs

	if ticks >= uint32(s.DelayTimer) {
		s.DelayTimer = 0
	} else {
		s.DelayTimer -= uint8(ticks)
	}

	s.InstructionAccumulator += deltaMs
	count := s.InstructionAccumulator / InstructionPeriodMs
	s.InstructionAccumulator %= InstructionPeriodMs

	// The sound timer counts up once per frame while it is set, wrapping
	// back to 0 after 255. Tone generation is left to the host.
	if s.SoundTimer > 0 {
		s.SoundTimer++
	}

	return count
}
