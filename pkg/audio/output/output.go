// ABOUTME: Audio output interface definition
// ABOUTME: Host and blocking Stream contracts shared by every playback backend
package output

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrBackendNotAvailable is returned when a backend was not compiled in or has no device
	ErrBackendNotAvailable = errors.New("audio backend not available")

	// ErrFormatNotSupported is returned by IsFormatSupported for rejected formats
	ErrFormatNotSupported = errors.New("format not supported")

	// ErrStreamClosed is returned by operations on a closed stream
	ErrStreamClosed = errors.New("stream is closed")

	// ErrStreamNotStarted is returned by Write before Start
	ErrStreamNotStarted = errors.New("stream not started")
)

// Status qualifies the result of a WriteAvailable query
type Status int

const (
	// StatusFrames means Frames holds the writable frame count (possibly zero)
	StatusFrames Status = iota
	// StatusOutputUnderflowed means the device ran dry since the last query
	StatusOutputUnderflowed
	// StatusOverflowed means the device reported an overflow condition
	StatusOverflowed
)

func (s Status) String() string {
	switch s {
	case StatusFrames:
		return "frames"
	case StatusOutputUnderflowed:
		return "output underflowed"
	case StatusOverflowed:
		return "overflowed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Availability is the answer to "how much can be written without blocking"
type Availability struct {
	Status Status
	Frames int
}

// Frames reports n writable frames
func Frames(n int) Availability {
	return Availability{Status: StatusFrames, Frames: n}
}

// DeviceInfo describes an output device
type DeviceInfo struct {
	Name                     string
	HostAPI                  string
	MaxOutputChannels        int
	DefaultSampleRate        float64
	DefaultLowOutputLatency  time.Duration
	DefaultHighOutputLatency time.Duration

	// backend-specific device reference
	handle any
}

// StreamParams describes the output side of a stream
type StreamParams struct {
	Device      *DeviceInfo
	Channels    int
	Interleaved bool
	Latency     time.Duration
}

// Host is an audio subsystem able to open output streams
type Host interface {
	// Name identifies the backend
	Name() string

	// Version describes the backend library
	Version() string

	// DefaultOutputDevice returns the device streams open on by default
	DefaultOutputDevice() (*DeviceInfo, error)

	// IsFormatSupported returns nil if a stream with params at sampleRate can be opened
	IsFormatSupported(params StreamParams, sampleRate float64) error

	// OpenStream opens a blocking output stream; it is not started
	OpenStream(params StreamParams, sampleRate float64, framesPerBuffer int) (Stream, error)

	// Close releases the audio subsystem
	Close() error
}

// Stream is a blocking-style output stream of interleaved float32 samples
type Stream interface {
	Start() error

	// Stop plays out queued audio and stops the stream
	Stop() error

	// Abort stops the stream immediately, discarding queued audio
	Abort() error

	Close() error

	// WriteAvailable reports how many frames can be written without blocking
	WriteAvailable() (Availability, error)

	// Write hands fill a buffer of frames*channels samples to populate, then
	// queues it on the device. The buffer is only valid during the call.
	Write(frames int, fill func(buf []float32)) error
}

// Backend names an output implementation
type Backend string

const (
	// BackendAuto picks PortAudio when compiled in, otherwise malgo
	BackendAuto      Backend = "auto"
	BackendPortAudio Backend = "portaudio"
	BackendMalgo     Backend = "malgo"
	BackendOto       Backend = "oto"
	// BackendWAV writes the stream to a WAV file instead of a device
	BackendWAV Backend = "wav"
)

// Backends lists every selectable backend
var Backends = []Backend{BackendAuto, BackendPortAudio, BackendMalgo, BackendOto, BackendWAV}

// ParseBackend converts a flag value into a Backend
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown audio backend %q", s)
}

// Options configures backend construction
type Options struct {
	// WAVPath is the destination file for BackendWAV
	WAVPath string

	// BufferDuration sizes software buffers for malgo and oto
	BufferDuration time.Duration
}

// DefaultBufferDuration is the software buffer size used when Options leaves it unset
const DefaultBufferDuration = 50 * time.Millisecond

// New creates the host for the given backend
func New(b Backend, opts Options) (Host, error) {
	if opts.BufferDuration <= 0 {
		opts.BufferDuration = DefaultBufferDuration
	}

	switch b {
	case BackendAuto:
		if PortAudioAvailable {
			return NewPortAudio()
		}
		return NewMalgo(opts)
	case BackendPortAudio:
		return NewPortAudio()
	case BackendMalgo:
		return NewMalgo(opts)
	case BackendOto:
		return NewOto(opts), nil
	case BackendWAV:
		if opts.WAVPath == "" {
			return nil, fmt.Errorf("wav backend requires an output path")
		}
		return NewWAV(opts.WAVPath), nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", b)
	}
}

// checkFormat applies the limits shared by the software backends
func checkFormat(params StreamParams, sampleRate float64, maxChannels int, minRate, maxRate float64) error {
	if !params.Interleaved {
		return fmt.Errorf("%w: only interleaved buffers are supported", ErrFormatNotSupported)
	}
	if params.Channels < 1 || params.Channels > maxChannels {
		return fmt.Errorf("%w: %d channels (supported: 1-%d)", ErrFormatNotSupported, params.Channels, maxChannels)
	}
	if sampleRate < minRate || sampleRate > maxRate {
		return fmt.Errorf("%w: sample rate %.0fHz (supported: %.0f-%.0fHz)", ErrFormatNotSupported, sampleRate, minRate, maxRate)
	}
	return nil
}
