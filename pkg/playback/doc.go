// ABOUTME: Playback pipeline package
// ABOUTME: Connects a frame decoder to a blocking output stream
// Package playback drives decoded audio into an output stream in real time.
//
// The pipeline has three parts:
//   - FrameSource skips decode errors before the first good frame, then fails fast
//   - Negotiate opens a stream matching the first frame on the default device
//   - Pump waits for stream capacity, interleaves each frame and writes it
//
// Example:
//
//	src := playback.NewFrameSource(dec)
//	first, err := src.Next()
//	if err != nil {
//		return err
//	}
//	cfg, stream, err := playback.Negotiate(host, first)
//	if err != nil {
//		return err
//	}
//	return playback.NewPump(src, stream, cfg).Run(ctx, first)
package playback
