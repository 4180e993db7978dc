// ABOUTME: Test doubles for decoders and output devices
// ABOUTME: Scripted decoder plus fake host and stream that record every call
package audiotest

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harperreed/mp3play/pkg/audio"
	"github.com/harperreed/mp3play/pkg/audio/decode"
	"github.com/harperreed/mp3play/pkg/audio/output"
)

// NewFrame builds a frame whose samples come from waveform
func NewFrame(sampleRate, channels, samples int, waveform func(sample, channel int) float32) audio.Frame {
	f := audio.NewFrame(sampleRate, channels, samples)
	for ch := range f.Samples {
		for i := range f.Samples[ch] {
			f.Samples[ch][i] = waveform(i, ch)
		}
	}
	return f
}

// Ramp gives every (sample, channel) pair a distinct value
func Ramp(sample, channel int) float32 {
	return float32(channel) + float32(sample)/65536
}

// Step is one result of a ScriptedDecoder
type Step struct {
	Frame audio.Frame
	Err   error
}

// FrameStep returns a step yielding f
func FrameStep(f audio.Frame) Step { return Step{Frame: f} }

// ErrStep returns a step yielding err
func ErrStep(err error) Step { return Step{Err: err} }

// ScriptedDecoder replays its steps, then reports io.EOF forever
type ScriptedDecoder struct {
	Steps []Step

	calls  int
	closed bool
}

var _ decode.Decoder = (*ScriptedDecoder)(nil)

// NewScriptedDecoder creates a decoder replaying steps
func NewScriptedDecoder(steps ...Step) *ScriptedDecoder {
	return &ScriptedDecoder{Steps: steps}
}

func (d *ScriptedDecoder) Next() (audio.Frame, error) {
	i := d.calls
	d.calls++
	if i >= len(d.Steps) {
		return audio.Frame{}, io.EOF
	}
	s := d.Steps[i]
	return s.Frame, s.Err
}

func (d *ScriptedDecoder) Close() error {
	d.closed = true
	return nil
}

// Calls returns how many times Next was called
func (d *ScriptedDecoder) Calls() int { return d.calls }

// Closed reports whether Close was called
func (d *ScriptedDecoder) Closed() bool { return d.closed }

// FakeHost is an output.Host that hands out a FakeStream
type FakeHost struct {
	Device    *output.DeviceInfo
	DeviceErr error
	FormatErr error
	OpenErr   error

	// Stream is returned by OpenStream; one is created when nil
	Stream *FakeStream

	Params          output.StreamParams
	SampleRate      float64
	FramesPerBuffer int
	FormatChecked   bool
	Opened          bool
	Closed          bool
}

var _ output.Host = (*FakeHost)(nil)

// NewFakeHost returns a host with a stereo default device and 10ms low latency
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Device: &output.DeviceInfo{
			Name:                     "fake output",
			HostAPI:                  "fake",
			MaxOutputChannels:        2,
			DefaultSampleRate:        44100,
			DefaultLowOutputLatency:  10 * time.Millisecond,
			DefaultHighOutputLatency: 100 * time.Millisecond,
		},
	}
}

func (h *FakeHost) Name() string    { return "fake" }
func (h *FakeHost) Version() string { return "fake 1.0" }

func (h *FakeHost) Close() error {
	h.Closed = true
	return nil
}

func (h *FakeHost) DefaultOutputDevice() (*output.DeviceInfo, error) {
	if h.DeviceErr != nil {
		return nil, h.DeviceErr
	}
	return h.Device, nil
}

func (h *FakeHost) IsFormatSupported(params output.StreamParams, sampleRate float64) error {
	h.FormatChecked = true
	h.Params = params
	h.SampleRate = sampleRate
	return h.FormatErr
}

func (h *FakeHost) OpenStream(params output.StreamParams, sampleRate float64, framesPerBuffer int) (output.Stream, error) {
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	h.Opened = true
	h.Params = params
	h.SampleRate = sampleRate
	h.FramesPerBuffer = framesPerBuffer

	if h.Stream == nil {
		h.Stream = NewFakeStream(params.Channels, framesPerBuffer)
	}
	if h.Stream.Channels == 0 {
		h.Stream.Channels = params.Channels
	}
	return h.Stream, nil
}

// FakeStream is an output.Stream that records writes and lifecycle calls
type FakeStream struct {
	Channels int

	// Capacity is reported as writable frames when Available is nil
	Capacity int

	// Available, when set, answers the n-th (1-based) WriteAvailable call
	Available func(poll int64) output.Availability

	StartErr error
	AvailErr error
	WriteErr error
	StopErr  error

	mu     sync.Mutex
	writes [][]float32
	events []string
	polls  atomic.Int64
}

var _ output.Stream = (*FakeStream)(nil)

// NewFakeStream returns a stream that always has room for capacity frames
func NewFakeStream(channels, capacity int) *FakeStream {
	return &FakeStream{Channels: channels, Capacity: capacity}
}

func (s *FakeStream) record(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *FakeStream) Start() error {
	s.record("start")
	return s.StartErr
}

func (s *FakeStream) Stop() error {
	s.record("stop")
	return s.StopErr
}

func (s *FakeStream) Abort() error {
	s.record("abort")
	return nil
}

func (s *FakeStream) Close() error {
	s.record("close")
	return nil
}

func (s *FakeStream) WriteAvailable() (output.Availability, error) {
	n := s.polls.Add(1)
	if s.AvailErr != nil {
		return output.Availability{}, s.AvailErr
	}
	if s.Available != nil {
		return s.Available(n), nil
	}
	return output.Frames(s.Capacity), nil
}

func (s *FakeStream) Write(frames int, fill func(buf []float32)) error {
	if s.WriteErr != nil {
		s.record("write")
		return s.WriteErr
	}
	buf := make([]float32, frames*s.Channels)
	fill(buf)

	s.mu.Lock()
	s.writes = append(s.writes, buf)
	s.events = append(s.events, "write")
	s.mu.Unlock()
	return nil
}

// Writes returns the buffers written so far
func (s *FakeStream) Writes() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]float32(nil), s.writes...)
}

// Events returns lifecycle and write calls in order
func (s *FakeStream) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

// Polls returns how many times WriteAvailable was called
func (s *FakeStream) Polls() int64 { return s.polls.Load() }

// Has reports whether event was recorded
func (s *FakeStream) Has(event string) bool {
	for _, e := range s.Events() {
		if e == event {
			return true
		}
	}
	return false
}
