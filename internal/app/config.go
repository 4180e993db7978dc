// ABOUTME: Player configuration
// ABOUTME: Defaults and validation for the command line options
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/mp3play/pkg/audio/output"
)

// Config holds player configuration
type Config struct {
	// Path is the audio file to play
	Path string

	Backend output.Backend

	// WAVPath is the destination when Backend is output.BackendWAV
	WAVPath string

	// PollInterval sleeps between capacity checks; zero yields instead
	PollInterval time.Duration

	// BufferDuration sizes the software buffer of the malgo and oto backends
	BufferDuration time.Duration

	// UseTUI shows the terminal status UI while playing
	UseTUI bool

	// StatsInterval is how often progress is pushed to the TUI
	StatsInterval time.Duration
}

// DefaultConfig returns the configuration used when no flags are given
func DefaultConfig() Config {
	return Config{
		Backend:        output.BackendAuto,
		BufferDuration: output.DefaultBufferDuration,
		UseTUI:         true,
		StatsInterval:  250 * time.Millisecond,
	}
}

// Validate checks the configuration for invalid combinations
func (c Config) Validate() error {
	if c.Path == "" {
		return errors.New("no input file given")
	}
	if _, err := output.ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.Backend == output.BackendWAV && c.WAVPath == "" {
		return errors.New("wav backend requires an output file")
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll interval must not be negative, got %v", c.PollInterval)
	}
	if c.BufferDuration < 0 {
		return fmt.Errorf("buffer duration must not be negative, got %v", c.BufferDuration)
	}
	if c.UseTUI && c.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive, got %v", c.StatsInterval)
	}
	return nil
}
