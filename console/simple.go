package console

import (
	"fmt"
	"io"
	"sync"

	"chip8/display"
	"chip8/keypad"
)

// Simple console for headless runs: status messages go to a writer, the
// framebuffer is only counted. Input can be injected with Send.
type Simple struct {
	mu     sync.Mutex
	out    io.Writer
	events chan keypad.Event
	frames int
	closed bool
}

// NewSimple returns a headless console writing status messages to out
func NewSimple(out io.Writer) *Simple {
	return &Simple{
		out:    out,
		events: make(chan keypad.Event, eventBuffer),
	}
}

// Present counts the frame
func (c *Simple) Present(fb *display.Framebuffer) {
	c.mu.Lock()
	c.frames++
	c.mu.Unlock()
}

// Frames returns the number of presented frames
func (c *Simple) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// WriteConsole writes every non-empty line of msg
func (c *Simple) WriteConsole(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range splitLines(msg) {
		if _, err := fmt.Fprintln(c.out, line); err != nil {
			return fmt.Errorf("writing console: %w", err)
		}
	}
	return nil
}

// Send queues an input event. It reports false when the buffer is full or
// the console is closed.
func (c *Simple) Send(e keypad.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.events <- e:
		return true
	default:
		return false
	}
}

// Events returns the input event channel
func (c *Simple) Events() <-chan keypad.Event {
	return c.events
}

// Close stops accepting events
func (c *Simple) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}
