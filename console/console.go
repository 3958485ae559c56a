package console

import (
	"errors"
	"strings"

	"chip8/display"
	"chip8/keypad"
)

/*
presentation and input frontends.

the scheduler owns the machine; a console only gets read access to the
framebuffer when it changed and hands key presses back through a channel:
	- Present: show the current framebuffer
	- WriteConsole: status messages
	- Events: key presses and quit requests, never blocks the sender
*/

// ErrNotTerminal is returned when the terminal frontend is started without a tty
var ErrNotTerminal = errors.New("stdout is not a terminal")

// eventBuffer is the number of pending input events before new ones are dropped
const eventBuffer = 64

// Console is implemented by every frontend
type Console interface {
	Present(fb *display.Framebuffer)
	WriteConsole(msg string) error
	Events() <-chan keypad.Event
	Close() error
}

// half block cells, indexed by top | bottom<<1
var cells = [4]rune{' ', '▀', '▄', '█'}

// Render converts a pixel grid into text lines.
// every character cell holds two pixel rows, so a 64x32 grid becomes 16 lines of 64 runes.
func Render(pixels []bool, width, height int) []string {
	lines := make([]string, 0, (height+1)/2)
	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		sb.Reset()
		for x := 0; x < width; x++ {
			cell := 0
			if pixels[y*width+x] {
				cell |= 1
			}
			if y+1 < height && pixels[(y+1)*width+x] {
				cell |= 2
			}
			sb.WriteRune(cells[cell])
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// splitLines returns the non-empty lines of msg
func splitLines(msg string) []string {
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sendQuit queues a Quit event, discarding the oldest pending events while
// the buffer is full. events must have a single sender.
func sendQuit(events chan keypad.Event) {
	quit := keypad.Event{Type: keypad.Quit}
	for {
		select {
		case events <- quit:
			return
		default:
		}
		select {
		case <-events:
		default:
		}
	}
}
