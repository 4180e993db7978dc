// ABOUTME: Audio output interface tests
// ABOUTME: Verifies backend selection and host implementations
package output

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestHostImplementations(t *testing.T) {
	var _ Host = (*WAV)(nil)
	var _ Host = (*Oto)(nil)
	var _ Host = (*Malgo)(nil)
	var _ Stream = (*wavStream)(nil)
	var _ Stream = (*ringStream)(nil)
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{"auto", BackendAuto, false},
		{"PortAudio", BackendPortAudio, false},
		{" malgo ", BackendMalgo, false},
		{"oto", BackendOto, false},
		{"wav", BackendWAV, false},
		{"alsa", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBackend(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewWAVRequiresPath(t *testing.T) {
	if _, err := New(BackendWAV, Options{}); err == nil {
		t.Error("expected error for wav backend without path")
	}

	host, err := New(BackendWAV, Options{WAVPath: filepath.Join(t.TempDir(), "out.wav")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if host.Name() != "wav" {
		t.Errorf("expected wav host, got %s", host.Name())
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(Backend("jack"), Options{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestCheckFormat(t *testing.T) {
	ok := StreamParams{Channels: 2, Interleaved: true}

	if err := checkFormat(ok, 44100, 2, 8000, 192000); err != nil {
		t.Errorf("expected stereo 44.1kHz to be supported, got %v", err)
	}

	tests := []struct {
		name   string
		params StreamParams
		rate   float64
	}{
		{"planar", StreamParams{Channels: 2}, 44100},
		{"too many channels", StreamParams{Channels: 6, Interleaved: true}, 44100},
		{"no channels", StreamParams{Channels: 0, Interleaved: true}, 44100},
		{"rate too low", ok, 4000},
		{"rate too high", ok, 384000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFormat(tt.params, tt.rate, 2, 8000, 192000)
			if !errors.Is(err, ErrFormatNotSupported) {
				t.Errorf("expected ErrFormatNotSupported, got %v", err)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if StatusFrames.String() != "frames" {
		t.Errorf("unexpected %q", StatusFrames.String())
	}
	if StatusOutputUnderflowed.String() != "output underflowed" {
		t.Errorf("unexpected %q", StatusOutputUnderflowed.String())
	}
	if Status(42).String() != "status(42)" {
		t.Errorf("unexpected %q", Status(42).String())
	}
}
