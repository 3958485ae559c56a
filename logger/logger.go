package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates the emulator logger.
// debug selects debug level, quiet errors only. With a non-empty path all
// output is appended to that file, the returned closer closes it.
func New(path string, debug, quiet bool) (*log.Logger, io.Closer, error) {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}

	if path == "" {
		return log.NewWithConfig(cfg), nopCloser{}, nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	cfg.Output = f

	l := log.NewWithConfig(cfg)
	l.Debug("Initializing log", log.String("path", path))
	return l, f, nil
}
