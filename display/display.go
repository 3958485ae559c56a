// Package display implements the monochrome framebuffer mutated by the
// sprite drawing instruction and read by the presentation frontends.
package display

import "strings"

// conventional framebuffer size
const (
	Width  = 64
	Height = 32
)

// Framebuffer is a fixed size grid of on/off pixels.
// pixel (0,0) is the top left corner.
type Framebuffer struct {
	width  int
	height int
	pixels []bool
	dirty  bool
}

// New returns a cleared framebuffer of the given size
func New(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]bool, width*height),
	}
}

// Width of the framebuffer in pixels
func (f *Framebuffer) Width() int {
	return f.width
}

// Height of the framebuffer in pixels
func (f *Framebuffer) Height() int {
	return f.height
}

// Pixel returns the state of the pixel at (x, y).
// out of range coordinates read as off.
func (f *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return false
	}
	return f.pixels[y*f.width+x]
}

// Clear switches every pixel off
func (f *Framebuffer) Clear() {
	for i := range f.pixels {
		f.pixels[i] = false
	}
	f.dirty = true
}

// DrawSprite XORs the sprite rows onto the framebuffer, 8 pixels per row,
// most significant bit first. The start position is taken modulo the
// framebuffer size once. Pixels falling past the right or bottom edge are
// clipped, or wrapped to the opposite edge when wrap is set.
// returns true if any lit pixel was switched off.
func (f *Framebuffer) DrawSprite(x, y int, rows []byte, wrap bool) bool {
	x %= f.width
	y %= f.height
	collision := false

	for row, bits := range rows {
		py := y + row
		if py >= f.height {
			if !wrap {
				break
			}
			py %= f.height
		}
		for column := 0; column < 8; column++ {
			if bits&(0x80>>column) == 0 {
				continue
			}
			px := x + column
			if px >= f.width {
				if !wrap {
					break
				}
				px %= f.width
			}
			idx := py*f.width + px
			if f.pixels[idx] {
				collision = true
			}
			f.pixels[idx] = !f.pixels[idx]
		}
	}
	f.dirty = true
	return collision
}

// Dirty reports whether the framebuffer changed since the last ClearDirty
func (f *Framebuffer) Dirty() bool {
	return f.dirty
}

// ClearDirty resets the dirty flag after a presentation flip
func (f *Framebuffer) ClearDirty() {
	f.dirty = false
}

// Snapshot returns a copy of the pixel grid, row major
func (f *Framebuffer) Snapshot() []bool {
	s := make([]bool, len(f.pixels))
	copy(s, f.pixels)
	return s
}

// String renders the framebuffer as text, '#' for lit and '.' for dark pixels
func (f *Framebuffer) String() string {
	var b strings.Builder
	b.Grow((f.width + 1) * f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if f.pixels[y*f.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
