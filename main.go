package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"chip8/console"
	"chip8/display"
	"chip8/loader"
	"chip8/logger"
	"chip8/sound"
	"chip8/system"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(app.Context(), os.Args[1:]))
}

// run the emulator and return the process exit code
func run(ctx context.Context, args []string) int {
	options, err := parseFlags(args)
	if err != nil {
		var usage *usageError
		if errors.As(err, &usage) {
			usage.showUsage(os.Stderr)
		}
		return 1
	}
	if options.version {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return 0
	}

	l, closer, err := logger.New(options.logFile, options.debug, options.quiet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() { _ = closer.Close() }()

	if !options.quiet {
		l.Info("chip8", log.String("version", buildinfo.Version(version, commit, date)))
	}

	program, err := loader.Load(options.program)
	if err != nil {
		l.Error("Loading program failed", log.Err(err))
		return 1
	}

	c, err := newConsole(options)
	if err != nil {
		l.Error("Starting display failed", log.Err(err))
		return 1
	}

	buzzer := newBuzzer(options, l)
	defer func() { _ = buzzer.Close() }()

	sys := system.InitializeSystem(c, buzzer, options.config, l)
	err = sys.Boot(ctx, program)

	// restore the terminal before anything else is printed
	if cerr := c.Close(); cerr != nil {
		l.Error("Closing display failed", log.Err(cerr))
	}

	switch {
	case err == nil:
		l.Info("Cycle limit reached", log.Int("cycles", int(sys.Cycles())))
		if options.dump {
			fmt.Print(sys.Display.String())
		}
	case errors.Is(err, system.ErrQuit), errors.Is(err, context.Canceled):
		l.Info("Emulation stopped")
	default:
		l.Error("Emulation failed", log.Err(err))
		return 1
	}
	return 0
}

func newConsole(options optionFlags) (console.Console, error) {
	if options.headless {
		return console.NewSimple(os.Stdout), nil
	}
	c, err := console.NewGui(display.Width, display.Height)
	if err != nil {
		return nil, fmt.Errorf("initializing terminal display: %w", err)
	}
	return c, nil
}

// newBuzzer opens the audio device. running without sound is not an error.
func newBuzzer(options optionFlags, l *log.Logger) sound.Buzzer {
	if options.mute {
		return sound.Silent{}
	}
	b, err := sound.New()
	if err != nil {
		l.Warn("Audio disabled", log.Err(err))
		return sound.Silent{}
	}
	return b
}
