// ABOUTME: Tests for FLAC and Vorbis decoders
// ABOUTME: Tests error reporting on invalid streams
package decode

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestStreamDecoders_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		open Opener
	}{
		{"flac", NewFLAC},
		{"vorbis", NewVorbis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dec := tt.open(bytes.NewReader([]byte("definitely not an audio stream")))
			defer dec.Close()

			if _, err := dec.Next(); err == nil {
				t.Fatal("expected error for invalid data, got nil")
			}

			// A stream that failed to open ends the sequence
			if _, err := dec.Next(); !errors.Is(err, io.EOF) {
				t.Fatalf("expected io.EOF after open failure, got %v", err)
			}
		})
	}
}

func TestFLACDecoder_Close(t *testing.T) {
	t.Parallel()

	src := &closeRecorder{Reader: bytes.NewReader(nil)}
	dec := NewFLAC(src)
	if err := dec.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if !src.closed {
		t.Error("expected source to be closed")
	}
}
