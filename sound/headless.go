//go:build headless

package sound

// New returns the silent buzzer, headless builds have no audio device
func New() (Buzzer, error) {
	return Silent{}, nil
}
