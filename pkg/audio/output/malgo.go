// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Uses miniaudio via malgo with a ring buffer feeding the data callback
package output

import (
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog/log"
)

const (
	malgoMaxChannels = 8
	malgoMinRate     = 8000
	malgoMaxRate     = 384000
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	ctx  *malgo.AllocatedContext
	opts Options
}

// NewMalgo initializes a miniaudio context
func NewMalgo(opts Options) (*Malgo, error) {
	if opts.BufferDuration <= 0 {
		opts.BufferDuration = DefaultBufferDuration
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug().Str("backend", "malgo").Msg(message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	return &Malgo{ctx: ctx, opts: opts}, nil
}

func (m *Malgo) Name() string    { return "malgo" }
func (m *Malgo) Version() string { return "miniaudio" }

// DefaultOutputDevice returns the playback device miniaudio marks as default
func (m *Malgo) DefaultOutputDevice() (*DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: no playback devices", ErrBackendNotAvailable)
	}

	chosen := devices[0]
	for _, d := range devices {
		if d.IsDefault != 0 {
			chosen = d
			break
		}
	}

	return &DeviceInfo{
		Name:                     chosen.Name(),
		HostAPI:                  "miniaudio",
		MaxOutputChannels:        malgoMaxChannels,
		DefaultLowOutputLatency:  m.opts.BufferDuration,
		DefaultHighOutputLatency: 4 * m.opts.BufferDuration,
		handle:                   chosen.ID,
	}, nil
}

func (m *Malgo) IsFormatSupported(params StreamParams, sampleRate float64) error {
	return checkFormat(params, sampleRate, malgoMaxChannels, malgoMinRate, malgoMaxRate)
}

// OpenStream initializes a float32 playback device drained from a ring buffer
func (m *Malgo) OpenStream(params StreamParams, sampleRate float64, framesPerBuffer int) (Stream, error) {
	if err := m.IsFormatSupported(params, sampleRate); err != nil {
		return nil, err
	}

	capacity := ringCapacity(sampleRate, params.Channels, framesPerBuffer, params.Latency)
	sink := &malgoSink{channels: params.Channels}
	stream := newRingStream(capacity, params.Channels, int(sampleRate), sink)
	sink.ring = stream.ring

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(params.Channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(framesPerBuffer)
	deviceConfig.Alsa.NoMMap = 1
	if params.Device != nil {
		if id, ok := params.Device.handle.(malgo.DeviceID); ok {
			deviceConfig.Playback.DeviceID = id.Pointer()
		}
	}

	device, err := malgo.InitDevice(m.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: sink.dataCallback,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	sink.device = device

	return stream, nil
}

// Close releases the miniaudio context
func (m *Malgo) Close() error {
	if m.ctx == nil {
		return nil
	}
	if err := m.ctx.Uninit(); err != nil {
		log.Warn().Err(err).Msg("malgo context uninit error")
	}
	m.ctx.Free()
	m.ctx = nil
	return nil
}

// malgoSink drives a miniaudio device
type malgoSink struct {
	device   *malgo.Device
	ring     *RingBuffer
	channels int
	scratch  []float32
}

// dataCallback is called by malgo to fill the audio output buffer
func (s *malgoSink) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount) * s.channels
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
	}
	samples := s.scratch[:n]
	s.ring.Read(samples)
	putFloat32LE(pOutput, samples)
}

func (s *malgoSink) start() error { return s.device.Start() }
func (s *malgoSink) pause() error { return s.device.Stop() }

func (s *malgoSink) close() error {
	s.device.Uninit()
	return nil
}
