// ABOUTME: FLAC audio decoder
// ABOUTME: Emits one frame per FLAC frame using mewkiz/flac subframes
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/harperreed/mp3play/pkg/audio"
)

// maxConsecutiveErrors bounds how many corrupt frames in a row are reported
// before the decoder gives up on the stream.
const maxConsecutiveErrors = 8

// FLACDecoder decodes FLAC audio into frames
type FLACDecoder struct {
	src    io.Reader
	stream *flac.Stream
	errs   int
	done   bool
}

// NewFLAC creates a FLAC decoder reading from r
func NewFLAC(r io.Reader) Decoder {
	return &FLACDecoder{src: r}
}

// Next decodes the next FLAC frame
func (d *FLACDecoder) Next() (audio.Frame, error) {
	if d.done {
		return audio.Frame{}, io.EOF
	}

	if d.stream == nil {
		stream, err := flac.New(d.src)
		if err != nil {
			d.done = true
			return audio.Frame{}, fmt.Errorf("failed to open flac stream: %w", err)
		}
		d.stream = stream
	}

	f, err := d.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.done = true
			return audio.Frame{}, io.EOF
		}
		d.errs++
		if d.errs >= maxConsecutiveErrors || errors.Is(err, io.ErrUnexpectedEOF) {
			d.done = true
		}
		return audio.Frame{}, fmt.Errorf("flac decode error: %w", err)
	}
	d.errs = 0

	return d.convert(f), nil
}

// convert scales integer subframes to normalized floats
func (d *FLACDecoder) convert(f *frame.Frame) audio.Frame {
	sampleRate := int(f.SampleRate)
	if sampleRate == 0 {
		sampleRate = int(d.stream.Info.SampleRate)
	}
	bps := int(f.BitsPerSample)
	if bps == 0 {
		bps = int(d.stream.Info.BitsPerSample)
	}

	out := audio.NewFrame(sampleRate, len(f.Subframes), int(f.BlockSize))
	for ch, sub := range f.Subframes {
		dst := out.Samples[ch]
		for i := 0; i < len(dst) && i < len(sub.Samples); i++ {
			dst[i] = audio.SampleFromInt(sub.Samples[i], bps)
		}
	}
	return out
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	d.done = true
	if c, ok := d.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
