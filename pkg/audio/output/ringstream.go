// ABOUTME: Blocking stream emulation over a ring buffer
// ABOUTME: Shared by the callback-driven malgo and oto backends
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// ringSink is the device side of a ringStream
type ringSink interface {
	start() error
	pause() error
	close() error
}

// ringStream reports ring free space as write capacity and queues writes
// into the ring; the sink's audio thread drains it.
type ringStream struct {
	ring       *RingBuffer
	channels   int
	sampleRate int
	scratch    []float32
	sink       ringSink
	started    bool
	closed     bool
}

// ringCapacity sizes a ring to hold the latency window, and never less than
// four device buffers so a full frame always fits.
func ringCapacity(sampleRate float64, channels, framesPerBuffer int, latency time.Duration) int {
	frames := int(latency.Seconds() * sampleRate)
	frames = max(frames, 4*framesPerBuffer)
	return frames * channels
}

func newRingStream(capacity, channels, sampleRate int, sink ringSink) *ringStream {
	return &ringStream{
		ring:       NewRingBuffer(capacity),
		channels:   channels,
		sampleRate: sampleRate,
		sink:       sink,
	}
}

func (s *ringStream) Start() error {
	if s.closed {
		return ErrStreamClosed
	}
	if err := s.sink.start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	s.started = true
	return nil
}

// Stop waits for buffered audio to play out, then pauses the device
func (s *ringStream) Stop() error {
	if s.closed {
		return ErrStreamClosed
	}
	if !s.started {
		return nil
	}

	buffered := time.Duration(s.ring.Available()/s.channels) * time.Second / time.Duration(s.sampleRate)
	deadline := time.Now().Add(buffered + time.Second)
	for s.ring.Available() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	s.started = false
	return s.sink.pause()
}

// Abort drops buffered audio and pauses the device
func (s *ringStream) Abort() error {
	if s.closed {
		return ErrStreamClosed
	}
	s.ring.Reset()
	if !s.started {
		return nil
	}
	s.started = false
	return s.sink.pause()
}

func (s *ringStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sink.close()
}

func (s *ringStream) WriteAvailable() (Availability, error) {
	if s.closed {
		return Availability{}, ErrStreamClosed
	}
	return Frames(s.ring.Free() / s.channels), nil
}

func (s *ringStream) Write(frames int, fill func(buf []float32)) error {
	if s.closed {
		return ErrStreamClosed
	}
	if !s.started {
		return ErrStreamNotStarted
	}

	n := frames * s.channels
	if cap(s.scratch) < n {
		s.scratch = make([]float32, n)
	}
	buf := s.scratch[:n]
	clear(buf)
	fill(buf)

	if written := s.ring.Write(buf); written < n {
		return fmt.Errorf("ring buffer overrun: queued %d of %d samples", written, n)
	}
	return nil
}

// putFloat32LE encodes samples as little-endian float32 bytes
func putFloat32LE(dst []byte, samples []float32) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
