//go:build !headless

package sound

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Oto buzzer plays a Tone through the system audio device
type Oto struct {
	tone   *Tone
	ctx    *oto.Context
	player *oto.Player
	mutex  sync.Mutex
}

// New opens the audio device and starts the (silent) tone stream
func New() (Buzzer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	b := &Oto{
		tone: NewTone(SampleRate, Frequency),
		ctx:  ctx,
	}
	b.player = ctx.NewPlayer(b.tone)
	b.player.Play()
	return b, nil
}

// SetActive switches the tone on or off
func (b *Oto) SetActive(on bool) {
	b.tone.SetActive(on)
}

// Close stops playback
func (b *Oto) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.player == nil {
		return nil
	}
	b.tone.SetActive(false)
	err := b.player.Close()
	b.player = nil
	if err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
