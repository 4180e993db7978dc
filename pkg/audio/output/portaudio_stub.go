//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import "fmt"

// PortAudioAvailable reports whether the PortAudio backend is compiled in
const PortAudioAvailable = false

// NewPortAudio reports that PortAudio support was not compiled in
func NewPortAudio() (Host, error) {
	return nil, fmt.Errorf("%w: PortAudio support not enabled (build with -tags portaudio)", ErrBackendNotAvailable)
}
