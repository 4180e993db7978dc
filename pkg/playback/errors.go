// ABOUTME: Playback error taxonomy
// ABOUTME: Sentinel errors for every fatal condition of the playback pipeline
package playback

import "errors"

// Every error here is terminal. Causes are wrapped alongside the sentinel,
// so errors.Is matches both the kind and the underlying error.
var (
	// ErrInvalidInput means the input path has an unsupported extension or cannot be opened
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFrames means the input ended before any frame decoded successfully
	ErrNoFrames = errors.New("no decodable frames")

	// ErrEndOfStream means the decoder is exhausted after playback started
	ErrEndOfStream = errors.New("end of stream")

	// ErrDecodeFailure means a frame failed to decode after playback started
	ErrDecodeFailure = errors.New("decode failure")

	// ErrDevice covers failures from device lookup, stream open, start, capacity query and write
	ErrDevice = errors.New("audio device error")

	// ErrUnsupportedFormat means the device rejected the negotiated rate/channel combination
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrContractViolation means a frame disagrees with the negotiated stream configuration
	ErrContractViolation = errors.New("stream contract violation")
)
