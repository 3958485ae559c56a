package loader

import (
	"errors"
	"fmt"
	"os"

	"chip8/memory"
)

// ErrEmptyPath is returned when no program file was given
var ErrEmptyPath = errors.New("no program file given")

// Program image, loaded verbatim at memory.ProgramStart
type Program struct {
	Path string
	Data []byte

	// Dropped is the number of bytes cut off because they do not fit into memory
	Dropped int
}

// Load reads the program image at path. Oversized images are truncated.
func Load(path string) (*Program, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %q: %w", path, err)
	}

	p := FromBytes(buf)
	p.Path = path
	return p, nil
}

// FromBytes wraps an in-memory image, truncated to memory.MaxProgramSize
func FromBytes(buf []byte) *Program {
	p := &Program{Data: buf}
	if len(buf) > memory.MaxProgramSize {
		p.Data = buf[:memory.MaxProgramSize]
		p.Dropped = len(buf) - memory.MaxProgramSize
	}
	return p
}

// Size of the loaded image in bytes
func (p *Program) Size() int {
	return len(p.Data)
}
