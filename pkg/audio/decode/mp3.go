// ABOUTME: MP3 audio decoder
// ABOUTME: Splits go-mp3's stereo 16-bit stream into 1152-sample frames
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/harperreed/mp3play/pkg/audio"
)

const (
	// MP3FrameSamples is the number of samples per channel in an MPEG-1 Layer III frame
	MP3FrameSamples = 1152

	// go-mp3 always produces interleaved stereo 16-bit little-endian PCM
	mp3Channels      = 2
	mp3BytesPerFrame = mp3Channels * 2
)

// mp3Reader is the part of *mp3.Decoder we use, so tests can substitute it
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// MP3Decoder decodes MP3 audio into frames
type MP3Decoder struct {
	src  io.Reader
	open func(io.Reader) (mp3Reader, error)
	dec  mp3Reader
	buf  []byte
	done bool
}

// NewMP3 creates an MP3 decoder reading from r. The stream header is not
// parsed until the first call to Next, so a corrupt lead-in surfaces as a
// per-frame error rather than a constructor failure.
func NewMP3(r io.Reader) Decoder {
	return newMP3(r, openMP3)
}

func newMP3(r io.Reader, open func(io.Reader) (mp3Reader, error)) *MP3Decoder {
	return &MP3Decoder{
		src:  r,
		open: open,
		buf:  make([]byte, MP3FrameSamples*mp3BytesPerFrame),
	}
}

func openMP3(r io.Reader) (mp3Reader, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return dec, nil
}

// Next decodes the next block of up to MP3FrameSamples samples per channel
func (d *MP3Decoder) Next() (audio.Frame, error) {
	if d.done {
		return audio.Frame{}, io.EOF
	}

	if d.dec == nil {
		dec, err := d.open(d.src)
		if err != nil {
			d.done = true
			return audio.Frame{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
		}
		d.dec = dec
	}

	n, err := io.ReadFull(d.dec, d.buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		d.done = true
		return audio.Frame{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Short final block
		d.done = true
	default:
		d.done = true
		return audio.Frame{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	samples := n / mp3BytesPerFrame
	if samples == 0 {
		return audio.Frame{}, io.EOF
	}

	frame := audio.NewFrame(d.dec.SampleRate(), mp3Channels, samples)
	for i := 0; i < samples; i++ {
		off := i * mp3BytesPerFrame
		frame.Samples[0][i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(d.buf[off:])))
		frame.Samples[1][i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(d.buf[off+2:])))
	}

	return frame, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	d.done = true
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
