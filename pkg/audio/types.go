// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded frames and sample conversion helpers
package audio

import "time"

const (
	// 16-bit PCM scaling constants
	maxInt16 = 32767
	minInt16 = -32768
)

// Frame is one unit of decoded PCM audio.
//
// Samples is channel-major: Samples[ch][i] is sample i of channel ch.
// Values are normalized to [-1, 1].
type Frame struct {
	SampleRate int
	Samples    [][]float32
}

// Channels returns the number of channel blocks in the frame
func (f Frame) Channels() int {
	return len(f.Samples)
}

// Len returns the number of samples per channel (taken from the first channel)
func (f Frame) Len() int {
	if len(f.Samples) == 0 {
		return 0
	}
	return len(f.Samples[0])
}

// Duration returns the playback duration of the frame
func (f Frame) Duration() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(f.Len()) * time.Second / time.Duration(f.SampleRate)
}

// Ragged reports whether the channel blocks have different lengths
func (f Frame) Ragged() bool {
	n := f.Len()
	for _, ch := range f.Samples {
		if len(ch) != n {
			return true
		}
	}
	return false
}

// NewFrame allocates a frame with the given shape
func NewFrame(sampleRate, channels, samples int) Frame {
	data := make([]float32, channels*samples)
	blocks := make([][]float32, channels)
	for ch := range blocks {
		blocks[ch] = data[ch*samples : (ch+1)*samples : (ch+1)*samples]
	}
	return Frame{SampleRate: sampleRate, Samples: blocks}
}

// SampleFromInt16 converts a 16-bit PCM sample to a normalized float
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a normalized float to 16-bit PCM, clamping out-of-range input
func SampleToInt16(sample float32) int16 {
	if sample > 1 {
		sample = 1
	} else if sample < -1 {
		sample = -1
	}
	return int16(sample * maxInt16)
}

// SampleFromInt converts a signed integer sample of the given bit depth to a normalized float
func SampleFromInt(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	scale := float64(int64(1) << (bitDepth - 1))
	return float32(float64(sample) / scale)
}
