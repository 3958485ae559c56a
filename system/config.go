package system

import "chip8/timer"

// DefaultInstructionsPerSecond is the default execution speed
const DefaultInstructionsPerSecond = 700

// Config of the emulated machine and its scheduler
type Config struct {
	// InstructionsPerSecond throttles execution, 0 runs unthrottled
	InstructionsPerSecond int

	// TimerHz is the delay and sound timer rate
	TimerHz int

	// WrapSprites wraps sprite pixels past the screen edges instead of clipping them
	WrapSprites bool

	// MaxCycles stops Run after that many scheduler iterations, 0 runs until quit
	MaxCycles uint64

	// Trace logs every executed instruction at debug level
	Trace bool
}

// DefaultConfig returns the standard machine configuration
func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
		TimerHz:               timer.DefaultHz,
	}
}
