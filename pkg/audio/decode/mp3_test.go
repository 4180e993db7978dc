// ABOUTME: Tests for MP3 decoder
// ABOUTME: Tests frame splitting, deinterleaving and error reporting
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

// mockMP3Reader simulates go-mp3 output: interleaved stereo int16 LE
type mockMP3Reader struct {
	sampleRate int
	pcm        []byte
	offset     int
	failAt     int // byte offset at which Read fails; -1 disables
	failErr    error
}

func newMockMP3Reader(sampleRate int, frames int) *mockMP3Reader {
	pcm := make([]byte, frames*mp3BytesPerFrame)
	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint16(pcm[i*4:], uint16(int16(i)))
		binary.LittleEndian.PutUint16(pcm[i*4+2:], uint16(int16(-i)))
	}
	return &mockMP3Reader{sampleRate: sampleRate, pcm: pcm, failAt: -1}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.failAt >= 0 && m.offset >= m.failAt {
		return 0, m.failErr
	}
	if m.offset >= len(m.pcm) {
		return 0, io.EOF
	}

	end := len(m.pcm)
	if m.failAt >= 0 && m.failAt < end {
		end = m.failAt
	}
	n := copy(buf, m.pcm[m.offset:end])
	m.offset += n
	return n, nil
}

func mockOpener(r *mockMP3Reader) func(io.Reader) (mp3Reader, error) {
	return func(io.Reader) (mp3Reader, error) { return r, nil }
}

func TestMP3Decoder_Frames(t *testing.T) {
	t.Parallel()

	total := MP3FrameSamples*2 + 100
	dec := newMP3(nil, mockOpener(newMockMP3Reader(44100, total)))

	wantLens := []int{MP3FrameSamples, MP3FrameSamples, 100}
	for i, want := range wantLens {
		frame, err := dec.Next()
		if err != nil {
			t.Fatalf("frame %d: unexpected error: %v", i, err)
		}
		if frame.SampleRate != 44100 {
			t.Errorf("frame %d: expected sample rate 44100, got %d", i, frame.SampleRate)
		}
		if frame.Channels() != 2 {
			t.Errorf("frame %d: expected 2 channels, got %d", i, frame.Channels())
		}
		if frame.Len() != want {
			t.Errorf("frame %d: expected %d samples, got %d", i, want, frame.Len())
		}
	}

	for i := 0; i < 2; i++ {
		if _, err := dec.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF after last frame, got %v", err)
		}
	}
}

func TestMP3Decoder_Deinterleave(t *testing.T) {
	t.Parallel()

	dec := newMP3(nil, mockOpener(newMockMP3Reader(48000, 10)))

	frame, err := dec.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 10; i++ {
		wantL := float32(i) / 32768.0
		wantR := float32(-i) / 32768.0
		if frame.Samples[0][i] != wantL {
			t.Errorf("left[%d]: expected %v, got %v", i, wantL, frame.Samples[0][i])
		}
		if frame.Samples[1][i] != wantR {
			t.Errorf("right[%d]: expected %v, got %v", i, wantR, frame.Samples[1][i])
		}
	}
}

func TestMP3Decoder_OpenError(t *testing.T) {
	t.Parallel()

	openErr := errors.New("bad header")
	dec := newMP3(nil, func(io.Reader) (mp3Reader, error) { return nil, openErr })

	_, err := dec.Next()
	if !errors.Is(err, openErr) {
		t.Fatalf("expected open error, got %v", err)
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after open failure, got %v", err)
	}
}

func TestMP3Decoder_ReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("corrupt frame")
	mock := newMockMP3Reader(44100, MP3FrameSamples*3)
	mock.failAt = MP3FrameSamples*mp3BytesPerFrame + 8
	mock.failErr = readErr
	dec := newMP3(nil, mockOpener(mock))

	if _, err := dec.Next(); err != nil {
		t.Fatalf("first frame: unexpected error: %v", err)
	}

	_, err := dec.Next()
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after read failure, got %v", err)
	}
}

func TestMP3Decoder_InvalidInput(t *testing.T) {
	t.Parallel()

	dec := NewMP3(bytes.NewReader([]byte("This is not MP3 data")))

	if _, err := dec.Next(); err == nil {
		t.Fatal("expected error for invalid data, got nil")
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after failure, got %v", err)
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestMP3Decoder_CloseClosesSource(t *testing.T) {
	t.Parallel()

	src := &closeRecorder{Reader: bytes.NewReader(nil)}
	dec := NewMP3(src)

	if err := dec.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !src.closed {
		t.Error("expected source to be closed")
	}
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after close, got %v", err)
	}
}
