// ABOUTME: Audio decoder package for file-based playback
// ABOUTME: Provides the Decoder interface and MP3, FLAC and Ogg Vorbis implementations
// Package decode turns encoded audio files into a sequence of frames.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), Ogg Vorbis (oggvorbis)
//
// Every decoder yields channel-major float32 frames and reports errors
// per frame, so callers decide whether a failure is fatal. A decoder
// whose underlying stream cannot continue ends the sequence with io.EOF
// after reporting the error.
//
// Example:
//
//	opener, ok := decode.Default().Lookup("song.mp3")
//	dec := opener(file)
//	frame, err := dec.Next()
package decode
