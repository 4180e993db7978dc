// ABOUTME: Oto-based audio output implementation
// ABOUTME: Feeds an oto player from the shared ring buffer
package output

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto only allows one context per process, so it is shared by every stream
var (
	otoMu         sync.Mutex
	otoCtx        *oto.Context
	otoSampleRate int
	otoChannels   int
)

// Oto output implementation using oto library
type Oto struct {
	bufferDuration time.Duration
}

// NewOto creates a new Oto host
func NewOto(opts Options) *Oto {
	if opts.BufferDuration <= 0 {
		opts.BufferDuration = DefaultBufferDuration
	}
	return &Oto{bufferDuration: opts.BufferDuration}
}

func (o *Oto) Name() string    { return "oto" }
func (o *Oto) Version() string { return "oto/v3" }
func (o *Oto) Close() error    { return nil }

// DefaultOutputDevice describes the system default output; oto does not enumerate devices
func (o *Oto) DefaultOutputDevice() (*DeviceInfo, error) {
	return &DeviceInfo{
		Name:                     "system default",
		HostAPI:                  runtime.GOOS,
		MaxOutputChannels:        2,
		DefaultLowOutputLatency:  o.bufferDuration,
		DefaultHighOutputLatency: 4 * o.bufferDuration,
	}, nil
}

// IsFormatSupported checks oto's mono/stereo limit and the process-wide context format
func (o *Oto) IsFormatSupported(params StreamParams, sampleRate float64) error {
	if err := checkFormat(params, sampleRate, 2, 8000, 192000); err != nil {
		return err
	}

	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil && (otoSampleRate != int(sampleRate) || otoChannels != params.Channels) {
		return fmt.Errorf("%w: oto context already running at %dHz/%dch",
			ErrFormatNotSupported, otoSampleRate, otoChannels)
	}
	return nil
}

// OpenStream creates (or reuses) the oto context and a player reading from a ring buffer
func (o *Oto) OpenStream(params StreamParams, sampleRate float64, framesPerBuffer int) (Stream, error) {
	if err := o.IsFormatSupported(params, sampleRate); err != nil {
		return nil, err
	}

	ctx, err := sharedOtoContext(int(sampleRate), params.Channels, params.Latency)
	if err != nil {
		return nil, err
	}

	capacity := ringCapacity(sampleRate, params.Channels, framesPerBuffer, params.Latency)
	sink := &otoSink{}
	stream := newRingStream(capacity, params.Channels, int(sampleRate), sink)

	sink.player = ctx.NewPlayer(&ringReader{ring: stream.ring})
	sink.player.SetBufferSize(framesPerBuffer * params.Channels * 4)

	return stream, nil
}

func sharedOtoContext(sampleRate, channels int, latency time.Duration) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return otoCtx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	otoCtx = ctx
	otoSampleRate = sampleRate
	otoChannels = channels
	return ctx, nil
}

// otoSink drives an oto player
type otoSink struct {
	player *oto.Player
}

func (s *otoSink) start() error {
	s.player.Play()
	return nil
}

func (s *otoSink) pause() error {
	s.player.Pause()
	return nil
}

func (s *otoSink) close() error {
	return s.player.Close()
}

// ringReader serves ring samples to oto as float32 LE bytes; it never
// reports EOF and plays silence on underrun.
type ringReader struct {
	ring    *RingBuffer
	scratch []float32
}

func (r *ringReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}
	samples := r.scratch[:n]
	r.ring.Read(samples)
	putFloat32LE(p, samples)
	return n * 4, nil
}
