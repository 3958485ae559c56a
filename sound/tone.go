package sound

import (
	"encoding/binary"
	"sync/atomic"
)

// Tone is a square wave source producing signed 16 bit little endian mono
// samples. It produces silence while inactive.
type Tone struct {
	active atomic.Bool

	// samples per half wave and position inside the current one
	half   int
	pos    int
	high   bool
	volume int16
}

// NewTone returns an inactive tone of freq Hz at sampleRate
func NewTone(sampleRate, freq int) *Tone {
	half := 1
	if freq > 0 {
		half = max(sampleRate/(2*freq), 1)
	}
	return &Tone{
		half:   half,
		high:   true,
		volume: amplitude,
	}
}

// SetActive switches the tone on or off
func (t *Tone) SetActive(on bool) {
	t.active.Store(on)
}

// Read fills p with samples. It never fails and always fills p completely;
// a trailing odd byte is zero.
func (t *Tone) Read(p []byte) (int, error) {
	on := t.active.Load()
	i := 0
	for ; i+1 < len(p); i += 2 {
		var sample int16
		if on {
			sample = t.volume
			if !t.high {
				sample = -t.volume
			}
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))

		t.pos++
		if t.pos >= t.half {
			t.pos = 0
			t.high = !t.high
		}
	}
	if i < len(p) {
		p[i] = 0
	}
	return len(p), nil
}
