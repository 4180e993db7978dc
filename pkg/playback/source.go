// ABOUTME: Frame source with lead-in error skipping
// ABOUTME: Wraps a decoder as a WarmingUp → Playing → Terminated state machine
package playback

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/mp3play/pkg/audio"
	"github.com/harperreed/mp3play/pkg/audio/decode"
)

// SourceState is the FrameSource lifecycle state
type SourceState int

const (
	// StateWarmingUp discards decode errors until the first valid frame
	StateWarmingUp SourceState = iota
	// StatePlaying treats any decode error as fatal
	StatePlaying
	// StateTerminated returns the terminal error without touching the decoder
	StateTerminated
)

func (s SourceState) String() string {
	switch s {
	case StateWarmingUp:
		return "warming up"
	case StatePlaying:
		return "playing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// FrameSource turns a decoder's fallible frame sequence into a clean one
type FrameSource struct {
	dec     decode.Decoder
	state   SourceState
	err     error
	skipped int
	frames  int64
}

// NewFrameSource wraps dec; the source does not close it
func NewFrameSource(dec decode.Decoder) *FrameSource {
	return &FrameSource{dec: dec}
}

// Next returns the next valid frame.
//
// While warming up, decode errors are discarded. After the first valid
// frame, a decode error yields ErrDecodeFailure. Exhaustion yields
// ErrEndOfStream, or ErrNoFrames if no frame was ever produced. Once
// terminated, the same error is returned on every call.
func (s *FrameSource) Next() (audio.Frame, error) {
	for s.state != StateTerminated {
		frame, err := s.dec.Next()
		switch {
		case err == nil:
			if s.state == StateWarmingUp && s.skipped > 0 {
				log.Debug().Int("skipped", s.skipped).Msg("Skipped corrupt lead-in")
			}
			s.state = StatePlaying
			s.frames++
			return frame, nil

		case errors.Is(err, io.EOF):
			if s.state == StateWarmingUp {
				return audio.Frame{}, s.terminate(fmt.Errorf("%w: %d decode errors before end of input", ErrNoFrames, s.skipped))
			}
			return audio.Frame{}, s.terminate(ErrEndOfStream)

		case s.state == StateWarmingUp:
			s.skipped++
			log.Debug().Err(err).Int("skipped", s.skipped).Msg("Discarding lead-in decode error")

		default:
			return audio.Frame{}, s.terminate(fmt.Errorf("%w: frame %d: %w", ErrDecodeFailure, s.frames+1, err))
		}
	}
	return audio.Frame{}, s.err
}

func (s *FrameSource) terminate(err error) error {
	s.state = StateTerminated
	s.err = err
	return err
}

// State returns the current lifecycle state
func (s *FrameSource) State() SourceState { return s.state }

// Skipped returns how many lead-in decode errors were discarded
func (s *FrameSource) Skipped() int { return s.skipped }

// Frames returns how many valid frames have been returned
func (s *FrameSource) Frames() int64 { return s.frames }
