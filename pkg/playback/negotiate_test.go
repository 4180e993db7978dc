// ABOUTME: Tests for stream negotiation
// ABOUTME: Checks derived configuration and how host failures are classified
package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/mp3play/internal/audiotest"
	"github.com/harperreed/mp3play/pkg/audio"
)

func TestNegotiate(t *testing.T) {
	t.Parallel()

	host := audiotest.NewFakeHost()
	first := audiotest.NewFrame(44100, 2, 1152, audiotest.Ramp)

	cfg, stream, err := Negotiate(host, first)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if stream == nil {
		t.Fatal("expected a stream")
	}

	if cfg.SampleRate != 44100 || cfg.Channels != 2 || cfg.FramesPerBuffer != 1152 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Interleaved {
		t.Error("expected interleaved config")
	}
	if cfg.Latency != 10*time.Millisecond {
		t.Errorf("expected device low latency, got %v", cfg.Latency)
	}
	if cfg.Device != host.Device {
		t.Error("expected the default output device")
	}

	if host.SampleRate != 44100 || host.FramesPerBuffer != 1152 {
		t.Errorf("stream opened with rate %v, %d frames per buffer", host.SampleRate, host.FramesPerBuffer)
	}
	if !host.Params.Interleaved || host.Params.Channels != 2 || host.Params.Latency != 10*time.Millisecond {
		t.Errorf("unexpected stream params: %+v", host.Params)
	}
	if len(host.Stream.Events()) != 0 {
		t.Errorf("stream should not be started, got %v", host.Stream.Events())
	}
}

func TestNegotiateHostFailures(t *testing.T) {
	t.Parallel()

	cause := errors.New("backend said no")

	tests := []struct {
		name       string
		setup      func(*audiotest.FakeHost)
		want       error
		wantOpened bool
	}{
		{"no default device", func(h *audiotest.FakeHost) { h.DeviceErr = cause }, ErrDevice, false},
		{"format rejected", func(h *audiotest.FakeHost) { h.FormatErr = cause }, ErrUnsupportedFormat, false},
		{"open fails", func(h *audiotest.FakeHost) { h.OpenErr = cause }, ErrDevice, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host := audiotest.NewFakeHost()
			tt.setup(host)

			_, stream, err := Negotiate(host, audiotest.NewFrame(44100, 2, 1152, audiotest.Ramp))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, cause) {
				t.Errorf("expected cause to be wrapped, got %v", err)
			}
			if stream != nil {
				t.Error("expected no stream")
			}
			if host.Opened != tt.wantOpened {
				t.Errorf("opened = %v", host.Opened)
			}
		})
	}
}

func TestNegotiateRejectsBadFirstFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame audio.Frame
	}{
		{"zero sample rate", audiotest.NewFrame(0, 2, 16, audiotest.Ramp)},
		{"no channels", audio.Frame{SampleRate: 44100}},
		{"no samples", audio.NewFrame(44100, 2, 0)},
		{"ragged", audio.Frame{SampleRate: 44100, Samples: [][]float32{make([]float32, 4), make([]float32, 3)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host := audiotest.NewFakeHost()
			_, _, err := Negotiate(host, tt.frame)
			if !errors.Is(err, ErrContractViolation) {
				t.Fatalf("expected ErrContractViolation, got %v", err)
			}
			if host.FormatChecked || host.Opened {
				t.Error("host should not be consulted for an invalid frame")
			}
		})
	}
}

func TestStreamConfigCheck(t *testing.T) {
	t.Parallel()

	cfg, err := ConfigFromFrame(audiotest.NewFrame(44100, 2, 1152, audiotest.Ramp))
	if err != nil {
		t.Fatalf("ConfigFromFrame: %v", err)
	}

	tests := []struct {
		name  string
		frame audio.Frame
		ok    bool
	}{
		{"matching", audiotest.NewFrame(44100, 2, 1152, audiotest.Ramp), true},
		{"shorter final frame", audiotest.NewFrame(44100, 2, 100, audiotest.Ramp), true},
		{"rate change", audiotest.NewFrame(48000, 2, 1152, audiotest.Ramp), false},
		{"channel change", audiotest.NewFrame(44100, 1, 1152, audiotest.Ramp), false},
		{"ragged", audio.Frame{SampleRate: 44100, Samples: [][]float32{make([]float32, 4), make([]float32, 3)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := cfg.Check(tt.frame)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrContractViolation) {
				t.Errorf("expected ErrContractViolation, got %v", err)
			}
		})
	}
}
