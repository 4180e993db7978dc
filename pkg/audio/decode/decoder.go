// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all frame-producing audio decoders
package decode

import "github.com/harperreed/mp3play/pkg/audio"

// Decoder produces a lazy, finite sequence of decoded frames
type Decoder interface {
	// Next decodes the next frame. It returns io.EOF once the input is
	// exhausted; any other error describes a frame that failed to decode.
	Next() (audio.Frame, error)

	// Close releases decoder resources
	Close() error
}
