// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Deinterleaves oggvorbis output into fixed-size frames
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/harperreed/mp3play/pkg/audio"
)

// VorbisFrameSamples is the number of samples per channel in each emitted frame
const VorbisFrameSamples = 1024

// VorbisDecoder decodes Ogg Vorbis audio into frames
type VorbisDecoder struct {
	src  io.Reader
	dec  *oggvorbis.Reader
	buf  []float32
	done bool
}

// NewVorbis creates an Ogg Vorbis decoder reading from r
func NewVorbis(r io.Reader) Decoder {
	return &VorbisDecoder{src: r}
}

// Next decodes up to VorbisFrameSamples samples per channel
func (d *VorbisDecoder) Next() (audio.Frame, error) {
	if d.done {
		return audio.Frame{}, io.EOF
	}

	if d.dec == nil {
		dec, err := oggvorbis.NewReader(d.src)
		if err != nil {
			d.done = true
			return audio.Frame{}, fmt.Errorf("failed to open vorbis stream: %w", err)
		}
		d.dec = dec
		d.buf = make([]float32, VorbisFrameSamples*dec.Channels())
	}

	channels := d.dec.Channels()
	total := 0
	for total < len(d.buf) {
		n, err := d.dec.Read(d.buf[total:])
		total += n
		if err != nil {
			d.done = true
			if !errors.Is(err, io.EOF) {
				return audio.Frame{}, fmt.Errorf("vorbis decode error: %w", err)
			}
			break
		}
		if n == 0 {
			break
		}
	}

	samples := total / channels
	if samples == 0 {
		d.done = true
		return audio.Frame{}, io.EOF
	}

	frame := audio.NewFrame(d.dec.SampleRate(), channels, samples)
	for i := 0; i < samples; i++ {
		for ch := 0; ch < channels; ch++ {
			frame.Samples[ch][i] = d.buf[i*channels+ch]
		}
	}
	return frame, nil
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	d.done = true
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
