package keypad

import (
	"time"
	"unicode"
)

// Count of logical keys on the hex keypad
const Count = 16

// HoldDuration is how long a key counts as held after its last press.
// terminals only deliver key presses (repeated while held), never releases.
const HoldDuration = 150 * time.Millisecond

// Layout maps logical keys 0x0-0xF to keyboard runes:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var Layout = [Count]rune{
	'x', '1', '2', '3',
	'q', 'w', 'e', 'a',
	's', 'd', 'z', 'c',
	'4', 'r', 'f', 'v',
}

// Lookup returns the logical key bound to r, case insensitive
func Lookup(r rune) (byte, bool) {
	r = unicode.ToLower(r)
	for k, bound := range Layout {
		if bound == r {
			return byte(k), true
		}
	}
	return 0, false
}

// State tracks which logical keys are currently held down.
// the scheduler presses keys from console events and the CPU reads them,
// both on the scheduler goroutine.
type State struct {
	pressed [Count]time.Time
	hold    time.Duration
	now     func() time.Time
}

// NewState returns a key state using the wall clock and HoldDuration
func NewState() *State {
	return &State{
		hold: HoldDuration,
		now:  time.Now,
	}
}

// SetClock replaces the time source used for the hold window
func (s *State) SetClock(now func() time.Time) {
	s.now = now
}

// Press marks key k as held from now on
func (s *State) Press(k byte) {
	if int(k) >= Count {
		return
	}
	s.pressed[k] = s.now()
}

// IsDown reports whether key k is held. Values above 0xF use the low nibble.
func (s *State) IsDown(k byte) bool {
	k &= 0x0F
	if s.pressed[k].IsZero() {
		return false
	}
	return s.now().Sub(s.pressed[k]) < s.hold
}

// FirstDown returns the lowest held key
func (s *State) FirstDown() (byte, bool) {
	for k := 0; k < Count; k++ {
		if s.IsDown(byte(k)) {
			return byte(k), true
		}
	}
	return 0, false
}
