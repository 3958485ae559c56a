package system

import (
	"context"

	"chip8/font"
	"chip8/loader"
	"chip8/memory"

	"github.com/retroenv/retrogolib/log"
)

// Load puts the font table and the program image into memory and resets the CPU
func (sys *System) Load(p *loader.Program) {
	sys.Memory.Reset()
	sys.Memory.Load(font.Start, font.Glyphs[:])
	sys.Memory.Load(memory.ProgramStart, p.Data)

	sys.Display.Clear()
	sys.CPU.Reset()

	if p.Dropped > 0 {
		sys.log.Warn("Program truncated",
			log.String("path", p.Path),
			log.Int("dropped", p.Dropped))
	}
	sys.log.Debug("Program loaded",
		log.String("path", p.Path),
		log.Int("size", p.Size()))
}

// Boot loads the program and starts emulation
func (sys *System) Boot(ctx context.Context, p *loader.Program) error {
	sys.Load(p)
	_ = sys.console.WriteConsole("Running " + name(p))
	return sys.Run(ctx)
}

func name(p *loader.Program) string {
	if p.Path == "" {
		return "program"
	}
	return p.Path
}
