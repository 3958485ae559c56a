package console

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"chip8/display"
	"chip8/keypad"

	"github.com/jroimartin/gocui"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	screenView = "screen"
	statusView = "status"
	statusRows = 4
)

// Gui is the terminal frontend: the framebuffer in one view, status messages
// below it. gocui runs its main loop in its own goroutine, so every view
// update goes through Update.
type Gui struct {
	g      *gocui.Gui
	events chan keypad.Event
	done   chan error

	width, height int

	// latest rendered frame, picked up by the pending redraw
	mu      sync.Mutex
	frame   []string
	pending atomic.Bool

	closeOnce sync.Once
}

// NewGui takes over the terminal and starts the gocui main loop.
// width and height are the framebuffer size in pixels.
func NewGui(width, height int) (*Gui, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotTerminal
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("creating terminal gui: %w", err)
	}

	c := &Gui{
		g:      g,
		events: make(chan keypad.Event, eventBuffer),
		done:   make(chan error, 1),
		width:  width,
		height: height,
	}
	g.SetManagerFunc(c.layout)

	for _, key := range []gocui.Key{gocui.KeyCtrlC, gocui.KeyEsc} {
		if err := g.SetKeybinding("", key, gocui.ModNone, c.quit); err != nil {
			g.Close()
			return nil, fmt.Errorf("binding quit key: %w", err)
		}
	}

	go c.mainLoop()
	return c, nil
}

// mainLoop runs gocui until quit. any exit of the loop stops the emulator.
func (c *Gui) mainLoop() {
	err := c.g.MainLoop()
	if errors.Is(err, gocui.ErrQuit) {
		err = nil
	}
	sendQuit(c.events)
	c.done <- err
}

// gocui layout
func (c *Gui) layout(g *gocui.Gui) error {
	maxX, _ := g.Size()
	rows := (c.height + 1) / 2

	// up -> framebuffer
	if v, err := g.SetView(screenView, 0, 0, c.width+1, rows+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "CHIP-8"
		v.FgColor = gocui.ColorGreen
		v.Editable = true
		v.Editor = gocui.EditorFunc(c.edit)
		if _, err := g.SetCurrentView(screenView); err != nil {
			return err
		}
	}

	// down -> status
	right := max(maxX-1, c.width+1)
	if v, err := g.SetView(statusView, 0, rows+2, right, rows+3+statusRows); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status (Esc to quit)"
		v.Autoscroll = true
	}
	return nil
}

// edit receives every key without a binding; mapped keys become key presses
func (c *Gui) edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	if k, ok := keypad.Lookup(ch); ok {
		c.send(keypad.Event{Type: keypad.KeyDown, Key: k})
	}
}

func (c *Gui) quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

// send delivers e unless the event buffer is full
func (c *Gui) send(e keypad.Event) {
	select {
	case c.events <- e:
	default:
	}
}

// Events returns the input event channel
func (c *Gui) Events() <-chan keypad.Event {
	return c.events
}

// Present renders the framebuffer. frames arriving faster than gocui
// redraws are coalesced, only the latest one is shown.
func (c *Gui) Present(fb *display.Framebuffer) {
	lines := Render(fb.Snapshot(), fb.Width(), fb.Height())

	c.mu.Lock()
	c.frame = lines
	c.mu.Unlock()

	if c.pending.Swap(true) {
		return
	}
	c.g.Update(func(g *gocui.Gui) error {
		c.pending.Store(false)
		v, err := g.View(screenView)
		if err != nil {
			return err
		}

		c.mu.Lock()
		frame := c.frame
		c.mu.Unlock()

		v.Clear()
		fmt.Fprint(v, strings.Join(frame, "\n"))
		return nil
	})
}

// WriteConsole displays a message in the status view.
// lines wider than the view are cut.
func (c *Gui) WriteConsole(msg string) error {
	lines := splitLines(msg)
	if len(lines) == 0 {
		return nil
	}
	c.g.Update(func(g *gocui.Gui) error {
		v, err := g.View(statusView)
		if err != nil {
			return err
		}
		width, _ := v.Size()
		for _, line := range lines {
			fmt.Fprintln(v, runewidth.Truncate(line, width, "…"))
		}
		return nil
	})
	return nil
}

// Close restores the terminal
func (c *Gui) Close() error {
	c.closeOnce.Do(c.g.Close)
	select {
	case err := <-c.done:
		return err
	default:
		return nil
	}
}
