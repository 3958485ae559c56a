package system

import (
	"context"
	"errors"
	"time"

	"chip8/console"
	"chip8/cpu"
	"chip8/display"
	"chip8/keypad"
	"chip8/memory"
	"chip8/sound"
	"chip8/timer"

	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by Run when the user asked to quit
var ErrQuit = errors.New("quit requested")

// maxLag is how far the scheduler may fall behind before it stops catching up
const maxLag = 100 * time.Millisecond

// System definition.
type System struct {
	CPU     *cpu.CPU
	Memory  *memory.Memory
	Display *display.Framebuffer
	Keys    *keypad.State

	config Config
	log    *log.Logger

	// console and sound output:
	console console.Console
	buzzer  sound.Buzzer

	timers *timer.Driver
	clock  Clock

	// period between two instructions, 0 when unthrottled
	period time.Duration
	// deadline of the next instruction
	next time.Time
	// time of the last timer update
	last time.Time

	cycles uint64
}

// InitializeSystem creates the emulated machine wired to its frontends
func InitializeSystem(c console.Console, b sound.Buzzer, config Config, logger *log.Logger) *System {
	sys := new(System)
	sys.console = c
	sys.buzzer = b
	sys.config = config
	sys.log = logger

	sys.Memory = memory.New()
	sys.Display = display.New(display.Width, display.Height)
	sys.Keys = keypad.NewState()

	sys.CPU = cpu.New(sys.Memory, sys.Display, sys.Keys, logger)
	sys.CPU.WrapSprites = config.WrapSprites
	sys.CPU.Trace = config.Trace

	sys.timers = timer.NewDriver(&sys.CPU.Timers, config.TimerHz)
	if config.InstructionsPerSecond > 0 {
		sys.period = time.Second / time.Duration(config.InstructionsPerSecond)
	}

	sys.SetClock(wallClock{})
	return sys
}

// SetClock replaces the time source of the scheduler and the keypad
func (sys *System) SetClock(c Clock) {
	sys.clock = c
	sys.Keys.SetClock(c.Now)
	sys.last = c.Now()
	sys.next = sys.last
}

// Cycles returns the number of scheduler iterations run so far
func (sys *System) Cycles() uint64 {
	return sys.cycles
}

// Run the scheduler until the user quits, ctx is cancelled or the configured
// number of cycles was executed. The latter returns nil.
func (sys *System) Run(ctx context.Context) error {
	sys.last = sys.clock.Now()
	sys.next = sys.last
	defer sys.buzzer.SetActive(false)

	for sys.config.MaxCycles == 0 || sys.cycles < sys.config.MaxCycles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := sys.Step(); err != nil {
			return err
		}
		sys.throttle()
	}

	sys.log.Debug("Cycle limit reached", log.Int("cycles", int(sys.cycles)))
	return nil
}

// Step runs a single scheduler iteration:
// input, one instruction, presentation and timers.
func (sys *System) Step() error {
	if err := sys.handleEvents(); err != nil {
		return err
	}

	// while waiting for a key the CPU only polls the keypad
	if sys.CPU.Step() || sys.Display.Dirty() {
		sys.console.Present(sys.Display)
		sys.Display.ClearDirty()
	}

	now := sys.clock.Now()
	sys.timers.Advance(now.Sub(sys.last))
	sys.last = now
	sys.buzzer.SetActive(sys.CPU.Timers.Sounding())

	sys.cycles++
	return nil
}

// handleEvents drains pending input without blocking
func (sys *System) handleEvents() error {
	events := sys.console.Events()
	for {
		select {
		case e := <-events:
			switch e.Type {
			case keypad.Quit:
				return ErrQuit
			case keypad.KeyDown:
				sys.Keys.Press(e.Key)
				sys.CPU.KeyDown(e.Key)
			}
		default:
			return nil
		}
	}
}

// throttle sleeps until the next instruction is due. a scheduler that fell
// behind by more than maxLag resynchronizes instead of running a burst.
func (sys *System) throttle() {
	if sys.period == 0 {
		return
	}

	sys.next = sys.next.Add(sys.period)
	now := sys.clock.Now()
	wait := sys.next.Sub(now)
	switch {
	case wait > 0:
		sys.clock.Sleep(wait)
	case wait < -maxLag:
		sys.next = now
	}
}
