// ABOUTME: WAV file output implementation
// ABOUTME: Renders a stream to a 16-bit PCM WAV file with go-audio/wav
package output

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/harperreed/mp3play/pkg/audio"
)

const (
	wavBitDepth    = 16
	wavPCMFormat   = 1
	wavMaxChannels = 8
)

// WAV writes streams to a file instead of a device
type WAV struct {
	path string
}

// NewWAV creates a WAV host writing to path
func NewWAV(path string) *WAV {
	return &WAV{path: path}
}

func (w *WAV) Name() string    { return "wav" }
func (w *WAV) Version() string { return "go-audio/wav" }
func (w *WAV) Close() error    { return nil }

// DefaultOutputDevice describes the destination file; a file has no latency
func (w *WAV) DefaultOutputDevice() (*DeviceInfo, error) {
	return &DeviceInfo{
		Name:              w.path,
		HostAPI:           "file",
		MaxOutputChannels: wavMaxChannels,
	}, nil
}

func (w *WAV) IsFormatSupported(params StreamParams, sampleRate float64) error {
	return checkFormat(params, sampleRate, wavMaxChannels, 1, 768000)
}

// OpenStream creates the file and a 16-bit PCM encoder
func (w *WAV) OpenStream(params StreamParams, sampleRate float64, framesPerBuffer int) (Stream, error) {
	if err := w.IsFormatSupported(params, sampleRate); err != nil {
		return nil, err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create wav file: %w", err)
	}

	return &wavStream{
		file:     f,
		encoder:  wav.NewEncoder(f, int(sampleRate), wavBitDepth, params.Channels, wavPCMFormat),
		format:   &goaudio.Format{NumChannels: params.Channels, SampleRate: int(sampleRate)},
		channels: params.Channels,
		capacity: max(framesPerBuffer, 1) * 4,
	}, nil
}

// wavStream never applies backpressure: capacity is always a few buffers
type wavStream struct {
	file     *os.File
	encoder  *wav.Encoder
	format   *goaudio.Format
	channels int
	capacity int
	scratch  []float32
	ints     []int
	started  bool
	done     bool
	closed   bool
}

func (s *wavStream) Start() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.started = true
	return nil
}

// Stop finalizes the WAV header
func (s *wavStream) Stop() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.started = false
	return s.finish()
}

// Abort keeps what was written so far as a valid file
func (s *wavStream) Abort() error {
	return s.Stop()
}

func (s *wavStream) Close() error {
	if s.closed {
		return nil
	}
	err := s.finish()
	s.closed = true
	return err
}

func (s *wavStream) finish() error {
	if s.done {
		return nil
	}
	s.done = true

	if err := s.encoder.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return s.file.Close()
}

func (s *wavStream) WriteAvailable() (Availability, error) {
	if s.closed {
		return Availability{}, ErrStreamClosed
	}
	return Frames(s.capacity), nil
}

func (s *wavStream) Write(frames int, fill func(buf []float32)) error {
	if s.closed || s.done {
		return ErrStreamClosed
	}
	if !s.started {
		return ErrStreamNotStarted
	}

	n := frames * s.channels
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
		s.ints = make([]int, n)
	}
	buf := s.scratch[:n]
	clear(buf)
	fill(buf)

	ints := s.ints[:n]
	for i, v := range buf {
		ints[i] = int(audio.SampleToInt16(v))
	}

	return s.encoder.Write(&goaudio.IntBuffer{
		Format:         s.format,
		Data:           ints,
		SourceBitDepth: wavBitDepth,
	})
}
