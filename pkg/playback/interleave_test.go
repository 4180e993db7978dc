// ABOUTME: Tests for sample interleaving
// ABOUTME: Verifies layout, offsets, clamping and round-trip against deinterleave
package playback

import (
	"testing"

	"github.com/harperreed/mp3play/internal/audiotest"
)

func TestInterleaveLayout(t *testing.T) {
	t.Parallel()

	samples := [][]float32{
		{0.1, 0.2, 0.3},
		{-0.1, -0.2, -0.3},
	}
	dst := make([]float32, 6)

	n := Interleave(dst, samples, 0, 3)
	if n != 6 {
		t.Fatalf("expected 6 values, got %d", n)
	}

	want := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d]: expected %v, got %v", i, want[i], dst[i])
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	t.Parallel()

	for _, channels := range []int{1, 2, 3, 6} {
		frame := audiotest.NewFrame(48000, channels, 1152, audiotest.Ramp)
		dst := make([]float32, channels*1152)

		if n := Interleave(dst, frame.Samples, 0, 1152); n != len(dst) {
			t.Fatalf("%d channels: expected %d values, got %d", channels, len(dst), n)
		}

		for j := range channels {
			for i := range 1152 {
				if dst[i*channels+j] != frame.Samples[j][i] {
					t.Fatalf("%d channels: sample %d channel %d differs", channels, i, j)
				}
			}
		}
	}
}

func TestInterleaveOffset(t *testing.T) {
	t.Parallel()

	samples := [][]float32{
		{1, 2, 3, 4, 5},
		{10, 20, 30, 40, 50},
	}
	dst := make([]float32, 4)

	if n := Interleave(dst, samples, 3, 2); n != 4 {
		t.Fatalf("expected 4 values, got %d", n)
	}
	want := []float32{4, 40, 5, 50}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d]: expected %v, got %v", i, want[i], dst[i])
		}
	}
}

func TestInterleaveClamps(t *testing.T) {
	t.Parallel()

	samples := [][]float32{{1, 2, 3}, {4, 5, 6}}

	tests := []struct {
		name   string
		dst    int
		offset int
		count  int
		want   int
	}{
		{"small destination", 3, 0, 3, 2},
		{"past channel end", 6, 2, 3, 2},
		{"offset beyond end", 6, 5, 1, 0},
		{"negative offset", 6, -1, 1, 0},
		{"zero count", 6, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]float32, tt.dst)
			if n := Interleave(dst, samples, tt.offset, tt.count); n != tt.want {
				t.Errorf("expected %d values, got %d", tt.want, n)
			}
		})
	}

	if n := Interleave(make([]float32, 4), nil, 0, 4); n != 0 {
		t.Errorf("no channels: expected 0, got %d", n)
	}
}
