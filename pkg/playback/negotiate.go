// ABOUTME: Stream negotiation from the first decoded frame
// ABOUTME: Derives the StreamConfig, validates it with the host and opens the stream
package playback

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/mp3play/pkg/audio"
	"github.com/harperreed/mp3play/pkg/audio/output"
)

// StreamConfig is the output configuration fixed by the first valid frame
type StreamConfig struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
	Latency         time.Duration
	Interleaved     bool
	Device          *output.DeviceInfo
}

// ConfigFromFrame derives rate, channel count and buffer size from a frame.
// Device and latency are left for Negotiate to fill in.
func ConfigFromFrame(first audio.Frame) (StreamConfig, error) {
	switch {
	case first.SampleRate <= 0:
		return StreamConfig{}, fmt.Errorf("%w: invalid sample rate %d", ErrContractViolation, first.SampleRate)
	case first.Channels() == 0:
		return StreamConfig{}, fmt.Errorf("%w: frame has no channels", ErrContractViolation)
	case first.Len() == 0:
		return StreamConfig{}, fmt.Errorf("%w: frame has no samples", ErrContractViolation)
	case first.Ragged():
		return StreamConfig{}, fmt.Errorf("%w: channels have different lengths", ErrContractViolation)
	}

	return StreamConfig{
		SampleRate:      first.SampleRate,
		Channels:        first.Channels(),
		FramesPerBuffer: first.Len(),
		Interleaved:     true,
	}, nil
}

// Check verifies a frame can be written to a stream opened with this config
func (c StreamConfig) Check(f audio.Frame) error {
	if f.SampleRate != c.SampleRate {
		return fmt.Errorf("%w: sample rate changed from %dHz to %dHz", ErrContractViolation, c.SampleRate, f.SampleRate)
	}
	if f.Channels() != c.Channels {
		return fmt.Errorf("%w: channel count changed from %d to %d", ErrContractViolation, c.Channels, f.Channels())
	}
	if f.Ragged() {
		return fmt.Errorf("%w: channels have different lengths", ErrContractViolation)
	}
	return nil
}

// Params returns the output parameters for this config
func (c StreamConfig) Params() output.StreamParams {
	return output.StreamParams{
		Device:      c.Device,
		Channels:    c.Channels,
		Interleaved: c.Interleaved,
		Latency:     c.Latency,
	}
}

// Negotiate opens an output stream matching the first valid frame.
//
// The stream is opened on the host's default output device with that
// device's low output latency. It is returned unstarted; the caller owns it.
func Negotiate(host output.Host, first audio.Frame) (StreamConfig, output.Stream, error) {
	cfg, err := ConfigFromFrame(first)
	if err != nil {
		return StreamConfig{}, nil, err
	}

	dev, err := host.DefaultOutputDevice()
	if err != nil {
		return StreamConfig{}, nil, fmt.Errorf("%w: default output device: %w", ErrDevice, err)
	}
	cfg.Device = dev
	cfg.Latency = dev.DefaultLowOutputLatency

	log.Info().
		Str("host", host.Name()).
		Str("version", host.Version()).
		Str("device", dev.Name).
		Str("host_api", dev.HostAPI).
		Int("max_output_channels", dev.MaxOutputChannels).
		Float64("default_sample_rate", dev.DefaultSampleRate).
		Dur("low_latency", dev.DefaultLowOutputLatency).
		Dur("high_latency", dev.DefaultHighOutputLatency).
		Msg("Output device")

	rate := float64(cfg.SampleRate)
	params := cfg.Params()
	if err := host.IsFormatSupported(params, rate); err != nil {
		return StreamConfig{}, nil, fmt.Errorf("%w: %dHz, %d channels: %w", ErrUnsupportedFormat, cfg.SampleRate, cfg.Channels, err)
	}

	stream, err := host.OpenStream(params, rate, cfg.FramesPerBuffer)
	if err != nil {
		return StreamConfig{}, nil, fmt.Errorf("%w: open stream: %w", ErrDevice, err)
	}

	log.Info().
		Int("sample_rate", cfg.SampleRate).
		Int("channels", cfg.Channels).
		Int("frames_per_buffer", cfg.FramesPerBuffer).
		Dur("latency", cfg.Latency).
		Msg("Opened output stream")

	return cfg, stream, nil
}
