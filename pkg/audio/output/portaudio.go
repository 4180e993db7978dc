//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Blocking-mode interleaved float32 streams via gordonklaus/portaudio
package output

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

// PortAudioAvailable reports whether the PortAudio backend is compiled in
const PortAudioAvailable = true

// PortAudio output implementation
type PortAudio struct {
	terminated bool
}

// NewPortAudio initializes PortAudio
func NewPortAudio() (Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &PortAudio{}, nil
}

func (p *PortAudio) Name() string {
	if api, err := portaudio.DefaultHostApi(); err == nil {
		return "portaudio/" + api.Name
	}
	return "portaudio"
}

func (p *PortAudio) Version() string {
	return portaudio.VersionText()
}

// DefaultOutputDevice returns the default output device of the default host API
func (p *PortAudio) DefaultOutputDevice() (*DeviceInfo, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("failed to get default output device: %w", err)
	}
	return toDeviceInfo(dev), nil
}

func toDeviceInfo(dev *portaudio.DeviceInfo) *DeviceInfo {
	info := &DeviceInfo{
		Name:                     dev.Name,
		MaxOutputChannels:        dev.MaxOutputChannels,
		DefaultSampleRate:        dev.DefaultSampleRate,
		DefaultLowOutputLatency:  dev.DefaultLowOutputLatency,
		DefaultHighOutputLatency: dev.DefaultHighOutputLatency,
		handle:                   dev,
	}
	if dev.HostApi != nil {
		info.HostAPI = dev.HostApi.Name
	}
	return info
}

func (p *PortAudio) streamParameters(params StreamParams, sampleRate float64, framesPerBuffer int) (portaudio.StreamParameters, error) {
	var dev *portaudio.DeviceInfo
	if params.Device != nil {
		dev, _ = params.Device.handle.(*portaudio.DeviceInfo)
	}
	if dev == nil {
		d, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("failed to get default output device: %w", err)
		}
		dev = d
	}

	return portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: params.Channels,
			Latency:  params.Latency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, nil
}

// IsFormatSupported asks PortAudio whether an interleaved float32 stream can be opened
func (p *PortAudio) IsFormatSupported(params StreamParams, sampleRate float64) error {
	if !params.Interleaved {
		return fmt.Errorf("%w: only interleaved buffers are supported", ErrFormatNotSupported)
	}

	sp, err := p.streamParameters(params, sampleRate, 0)
	if err != nil {
		return err
	}

	// The buffer type selects the sample format: []float32 is interleaved float32
	if err := portaudio.IsFormatSupported(sp, make([]float32, params.Channels)); err != nil {
		return fmt.Errorf("%w: %w", ErrFormatNotSupported, err)
	}
	return nil
}

// OpenStream opens a blocking stream sized to framesPerBuffer
func (p *PortAudio) OpenStream(params StreamParams, sampleRate float64, framesPerBuffer int) (Stream, error) {
	sp, err := p.streamParameters(params, sampleRate, framesPerBuffer)
	if err != nil {
		return nil, err
	}

	s := &paStream{
		channels: params.Channels,
		buf:      make([]float32, framesPerBuffer*params.Channels),
	}

	// Passing a pointer lets each Write size the buffer to the frames being written
	stream, err := portaudio.OpenStream(sp, &s.buf)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	s.stream = stream

	return s, nil
}

// Close terminates PortAudio
func (p *PortAudio) Close() error {
	if p.terminated {
		return nil
	}
	p.terminated = true
	return portaudio.Terminate()
}

// paStream wraps a blocking PortAudio stream
type paStream struct {
	stream     *portaudio.Stream
	channels   int
	buf        []float32
	underflows int
	closed     bool
}

func (s *paStream) Start() error { return s.stream.Start() }
func (s *paStream) Stop() error  { return s.stream.Stop() }
func (s *paStream) Abort() error { return s.stream.Abort() }

func (s *paStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stream.Close()
}

func (s *paStream) WriteAvailable() (Availability, error) {
	n, err := s.stream.AvailableToWrite()
	if err != nil {
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return Availability{Status: StatusOutputUnderflowed}, nil
		}
		return Availability{}, err
	}
	return Frames(n), nil
}

// Write fills the stream buffer and writes it. An output underflow means
// the data was still written after a gap, so it is logged, not returned.
func (s *paStream) Write(frames int, fill func(buf []float32)) error {
	n := frames * s.channels
	if cap(s.buf) < n {
		s.buf = make([]float32, n)
	}
	s.buf = s.buf[:n]
	fill(s.buf)

	if err := s.stream.Write(); err != nil {
		if errors.Is(err, portaudio.OutputUnderflowed) {
			s.underflows++
			log.Warn().Int("underflows", s.underflows).Msg("Output underflow")
			return nil
		}
		return err
	}
	return nil
}
