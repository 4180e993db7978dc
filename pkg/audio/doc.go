// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Frame type and sample conversion functions
// Package audio provides fundamental audio types shared by decoders,
// output backends and the playback pump.
//
//   - Frame: one decoded block of PCM audio, one sample slice per channel
//
// It also provides conversions between normalized float samples and
// integer PCM:
//   - int16 ↔ float32
//   - N-bit integer → float32
//
// Example:
//
//	frame := audio.NewFrame(44100, 2, 1152)
//	frame.Samples[0][0] = audio.SampleFromInt16(pcm[0])
package audio
