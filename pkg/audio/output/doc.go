// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Host/Stream interfaces and PortAudio, malgo, oto and WAV backends
// Package output provides blocking audio output streams.
//
// A Host opens a Stream once the caller has negotiated a format. Streams
// expose a non-blocking capacity query and a write that fills a
// device-owned interleaved float32 buffer:
//
//	host, err := output.New(output.BackendAuto, output.Options{})
//	dev, err := host.DefaultOutputDevice()
//	params := output.StreamParams{Device: dev, Channels: 2, Interleaved: true, Latency: dev.DefaultLowOutputLatency}
//	stream, err := host.OpenStream(params, 44100, 1152)
//	err = stream.Start()
//	avail, err := stream.WriteAvailable()
//	err = stream.Write(1152, func(buf []float32) { ... })
//
// PortAudio is the reference backend and is only compiled with
// -tags portaudio. The malgo and oto backends emulate a blocking stream on
// top of a ring buffer drained by the library's audio thread.
package output
