package timer

import "time"

/**
Delay and sound countdown timers
*/

// DefaultHz is the conventional timer rate
const DefaultHz = 60

// Timers keeps both 8 bit countdown counters
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both timers, saturating at zero
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// Sounding reports whether the buzzer should be on
func (t *Timers) Sounding() bool {
	return t.Sound > 0
}

// Reset clears both timers
func (t *Timers) Reset() {
	t.Delay = 0
	t.Sound = 0
}

// Driver converts elapsed wall time into timer ticks at a fixed rate,
// independent of how many instructions ran in between.
type Driver struct {
	timers  *Timers
	period  time.Duration
	elapsed time.Duration
}

// NewDriver returns a driver ticking t at hz ticks per second.
// hz <= 0 falls back to DefaultHz, the period is never shorter than 1ns.
func NewDriver(t *Timers, hz int) *Driver {
	if hz <= 0 {
		hz = DefaultHz
	}
	period := time.Second / time.Duration(hz)
	if period <= 0 {
		period = time.Nanosecond
	}
	return &Driver{
		timers: t,
		period: period,
	}
}

// Advance accounts for d of wall time and applies every tick that became due.
// returns the number of ticks applied.
func (d *Driver) Advance(delta time.Duration) int {
	if delta <= 0 {
		return 0
	}
	d.elapsed += delta
	ticks := 0
	for d.elapsed >= d.period {
		d.elapsed -= d.period
		d.timers.Tick()
		ticks++
	}
	return ticks
}

// Period returns the duration of a single tick
func (d *Driver) Period() time.Duration {
	return d.period
}
