package sound

/**
 * the buzzer plays a fixed tone while the sound timer is nonzero.
 * the scheduler calls SetActive after every timer update.
 */

const (
	// SampleRate of the generated audio
	SampleRate = 44100

	// Frequency of the buzzer tone in Hz
	Frequency = 440

	amplitude = 0x1000
)

// Buzzer switches the tone on and off
type Buzzer interface {
	SetActive(on bool)
	Close() error
}

// Silent buzzer, used when audio is muted or unavailable
type Silent struct{}

// SetActive does nothing
func (Silent) SetActive(bool) {}

// Close does nothing
func (Silent) Close() error { return nil }
