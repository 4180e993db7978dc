// ABOUTME: Tests for ring-buffer stream emulation
// ABOUTME: Tests capacity reporting, write lifecycle and abort semantics
package output

import (
	"errors"
	"testing"
	"time"
)

type fakeSink struct {
	started, paused, closed int
}

func (s *fakeSink) start() error { s.started++; return nil }
func (s *fakeSink) pause() error { s.paused++; return nil }
func (s *fakeSink) close() error { s.closed++; return nil }

func TestRingCapacity(t *testing.T) {
	// 100ms at 48kHz stereo exceeds four 256-frame buffers
	if got := ringCapacity(48000, 2, 256, 100*time.Millisecond); got != 4800*2 {
		t.Errorf("expected 9600, got %d", got)
	}
	// Tiny latency falls back to four buffers
	if got := ringCapacity(44100, 2, 1152, time.Millisecond); got != 4*1152*2 {
		t.Errorf("expected %d, got %d", 4*1152*2, got)
	}
}

func TestRingStreamWriteBeforeStart(t *testing.T) {
	s := newRingStream(16, 2, 44100, &fakeSink{})

	err := s.Write(2, func([]float32) {})
	if !errors.Is(err, ErrStreamNotStarted) {
		t.Errorf("expected ErrStreamNotStarted, got %v", err)
	}
}

func TestRingStreamAvailability(t *testing.T) {
	sink := &fakeSink{}
	s := newRingStream(16, 2, 44100, sink)

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if sink.started != 1 {
		t.Errorf("expected sink started once, got %d", sink.started)
	}

	avail, err := s.WriteAvailable()
	if err != nil {
		t.Fatalf("WriteAvailable: %v", err)
	}
	if avail.Status != StatusFrames || avail.Frames != 8 {
		t.Errorf("expected 8 frames available, got %+v", avail)
	}

	err = s.Write(3, func(buf []float32) {
		if len(buf) != 6 {
			t.Errorf("expected 6-sample buffer, got %d", len(buf))
		}
		for i := range buf {
			buf[i] = float32(i)
		}
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	avail, _ = s.WriteAvailable()
	if avail.Frames != 5 {
		t.Errorf("expected 5 frames available after write, got %d", avail.Frames)
	}
}

func TestRingStreamOverrun(t *testing.T) {
	s := newRingStream(4, 2, 44100, &fakeSink{})
	s.Start()

	if err := s.Write(3, func([]float32) {}); err == nil {
		t.Error("expected overrun error when writing past capacity")
	}
}

func TestRingStreamAbortDiscards(t *testing.T) {
	sink := &fakeSink{}
	s := newRingStream(16, 1, 44100, sink)
	s.Start()
	s.Write(4, func([]float32) {})

	if err := s.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if s.ring.Available() != 0 {
		t.Errorf("expected ring cleared, got %d samples", s.ring.Available())
	}
	if sink.paused != 1 {
		t.Errorf("expected sink paused once, got %d", sink.paused)
	}
}

func TestRingStreamStopDrains(t *testing.T) {
	sink := &fakeSink{}
	s := newRingStream(64, 1, 1000, sink)
	s.Start()
	s.Write(10, func([]float32) {})

	// Stand-in for the audio thread
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.ring.Read(make([]float32, 10))
	}()

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.ring.Available() != 0 {
		t.Errorf("expected drained ring, got %d samples", s.ring.Available())
	}
	if sink.paused != 1 {
		t.Errorf("expected sink paused once, got %d", sink.paused)
	}
}

func TestRingStreamClosed(t *testing.T) {
	sink := &fakeSink{}
	s := newRingStream(16, 2, 44100, sink)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if sink.closed != 1 {
		t.Errorf("expected sink closed once, got %d", sink.closed)
	}
	if _, err := s.WriteAvailable(); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("expected ErrStreamClosed, got %v", err)
	}
}

func TestRingReaderEncodesFloats(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1})
	r := &ringReader{ring: rb}

	p := make([]byte, 10)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes (two whole samples), got %d", n)
	}
	// 1.0f little-endian
	if p[0] != 0x00 || p[1] != 0x00 || p[2] != 0x80 || p[3] != 0x3f {
		t.Errorf("unexpected encoding % x", p[:4])
	}
	for _, b := range p[4:8] {
		if b != 0 {
			t.Errorf("expected silence after underrun, got % x", p[4:8])
			break
		}
	}
}
