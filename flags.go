package main

import (
	"flag"
	"fmt"
	"io"

	"chip8/system"
)

// maxTimerHz bounds the -hz flag
const maxTimerHz = 1000

type optionFlags struct {
	program string
	logFile string

	debug    bool
	quiet    bool
	headless bool
	dump     bool
	mute     bool
	version  bool

	config system.Config
}

// usageError is returned for missing or invalid arguments
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string {
	return e.msg
}

// showUsage prints the usage text to w
func (e *usageError) showUsage(w io.Writer) {
	if e.msg != "" {
		fmt.Fprintf(w, "%s\n\n", e.msg)
	}
	fmt.Fprintf(w, "usage: chip8 [options] <program file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

func parseFlags(args []string) (optionFlags, error) {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	options := optionFlags{config: system.DefaultConfig()}
	cfg := &options.config

	flags.IntVar(&cfg.InstructionsPerSecond, "ips", cfg.InstructionsPerSecond, "instructions executed per second, 0 runs unthrottled")
	flags.IntVar(&cfg.TimerHz, "hz", cfg.TimerHz, fmt.Sprintf("delay and sound timer rate, 1-%d", maxTimerHz))
	flags.BoolVar(&cfg.WrapSprites, "wrap", false, "wrap sprites at the screen edges instead of clipping them")
	flags.Uint64Var(&cfg.MaxCycles, "cycles", 0, "stop after this many scheduler cycles (instructions or key wait polls), 0 runs until quit")
	flags.BoolVar(&options.headless, "headless", false, "run without the terminal display")
	flags.BoolVar(&options.dump, "dump", false, "print the screen after the cycle limit was reached")
	flags.BoolVar(&options.mute, "mute", false, "disable the buzzer")
	flags.StringVar(&options.logFile, "log", "", "append log output to this file (default chip8.log with the terminal display)")
	flags.BoolVar(&options.debug, "debug", false, "enable debug logging and instruction tracing")
	flags.BoolVar(&options.quiet, "q", false, "only log errors")
	flags.BoolVar(&options.version, "version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		return options, &usageError{flags: flags, msg: err.Error()}
	}
	if options.version {
		return options, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return options, &usageError{flags: flags, msg: "missing program file"}
	case len(rest) > 1:
		return options, &usageError{flags: flags, msg: fmt.Sprintf("unexpected argument %q after the program file", rest[1])}
	case cfg.InstructionsPerSecond < 0:
		return options, &usageError{flags: flags, msg: "-ips must not be negative"}
	case cfg.TimerHz < 1 || cfg.TimerHz > maxTimerHz:
		return options, &usageError{flags: flags, msg: fmt.Sprintf("-hz must be between 1 and %d", maxTimerHz)}
	}

	options.program = rest[0]
	options.config.Trace = options.debug
	if options.logFile == "" && !options.headless {
		options.logFile = "chip8.log"
	}
	return options, nil
}
