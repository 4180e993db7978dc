// ABOUTME: Logger setup for the command line tools
// ABOUTME: Sends zerolog output to a log file and optionally to the console
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures Setup
type Options struct {
	// File is appended to; empty disables file logging
	File string

	// Console also writes human-readable output to Stderr
	Console bool
	Stderr  io.Writer

	Debug bool
}

// Setup installs the global logger. The returned closer releases the log file.
func Setup(opts Options) (io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if opts.Console {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly})
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
