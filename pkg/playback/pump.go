// ABOUTME: Real-time playback pump
// ABOUTME: Polls output capacity, interleaves frames and writes them to the stream
package playback

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harperreed/mp3play/pkg/audio"
	"github.com/harperreed/mp3play/pkg/audio/output"
)

// PumpState is the pump lifecycle state
type PumpState int32

const (
	PumpIdle PumpState = iota
	PumpRunning
	// PumpFinished means the source was exhausted and the stream stopped cleanly
	PumpFinished
	// PumpFailed means the stream was aborted after an error or cancellation
	PumpFailed
)

func (s PumpState) String() string {
	switch s {
	case PumpIdle:
		return "idle"
	case PumpRunning:
		return "playing"
	case PumpFinished:
		return "finished"
	case PumpFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats tracks pump progress
type Stats struct {
	State          PumpState
	Frames         int64
	Writes         int64
	SamplesWritten int64
	Polls          int64
	Skipped        int64
	Position       time.Duration
}

// Option configures a Pump
type Option func(*Pump)

// WithPollInterval sleeps between capacity checks instead of yielding.
// The interval is capped at half the stream latency.
func WithPollInterval(d time.Duration) Option {
	return func(p *Pump) {
		p.pollInterval = d
	}
}

// Pump moves frames from a FrameSource into an output stream
type Pump struct {
	src          *FrameSource
	stream       output.Stream
	cfg          StreamConfig
	pollInterval time.Duration
	statusLog    zerolog.Logger

	state   atomic.Int32
	frames  atomic.Int64
	writes  atomic.Int64
	samples atomic.Int64
	polls   atomic.Int64
	skipped atomic.Int64
}

// NewPump creates a pump for a stream negotiated with cfg
func NewPump(src *FrameSource, stream output.Stream, cfg StreamConfig, opts ...Option) *Pump {
	p := &Pump{
		src:       src,
		stream:    stream,
		cfg:       cfg,
		statusLog: log.Sample(&zerolog.BurstSampler{Burst: 5, Period: time.Second}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.pollInterval > 0 {
		limit := cfg.Latency / 2
		if limit <= 0 {
			p.pollInterval = 0
		} else if p.pollInterval > limit {
			p.pollInterval = limit
		}
	}
	return p
}

// Run plays first and every following frame of the source, then releases
// the stream. It returns nil once the source is exhausted and the stream
// has been stopped. On any error the stream is aborted instead.
func (p *Pump) Run(ctx context.Context, first audio.Frame) error {
	if !p.state.CompareAndSwap(int32(PumpIdle), int32(PumpRunning)) {
		return errors.New("pump already ran")
	}
	p.skipped.Store(int64(p.src.Skipped()))

	if err := p.stream.Start(); err != nil {
		return p.abort(fmt.Errorf("%w: start stream: %w", ErrDevice, err))
	}
	log.Debug().Int("frames_per_buffer", p.cfg.FramesPerBuffer).Dur("poll_interval", p.pollInterval).Msg("Pump started")

	frame := first
	for {
		if err := ctx.Err(); err != nil {
			return p.abort(err)
		}
		if err := p.cfg.Check(frame); err != nil {
			return p.abort(err)
		}
		if err := p.play(ctx, frame); err != nil {
			return p.abort(err)
		}
		p.frames.Add(1)

		next, err := p.src.Next()
		if errors.Is(err, ErrEndOfStream) {
			return p.finish()
		}
		if err != nil {
			return p.abort(err)
		}
		frame = next
	}
}

// play writes one frame in chunks no larger than FramesPerBuffer
func (p *Pump) play(ctx context.Context, frame audio.Frame) error {
	total := frame.Len()
	for offset := 0; offset < total; {
		n := min(total-offset, p.cfg.FramesPerBuffer)
		if err := p.waitWritable(ctx, n); err != nil {
			return err
		}

		err := p.stream.Write(n, func(buf []float32) {
			Interleave(buf, frame.Samples, offset, n)
		})
		if err != nil {
			return fmt.Errorf("%w: write %d frames: %w", ErrDevice, n, err)
		}

		p.writes.Add(1)
		p.samples.Add(int64(n * p.cfg.Channels))
		offset += n
	}
	return nil
}

// waitWritable polls the stream until at least need frames fit
func (p *Pump) waitWritable(ctx context.Context, need int) error {
	for {
		avail, err := p.stream.WriteAvailable()
		p.polls.Add(1)
		if err != nil {
			return fmt.Errorf("%w: query write capacity: %w", ErrDevice, err)
		}

		if avail.Status == output.StatusFrames {
			if avail.Frames >= need {
				return nil
			}
		} else {
			p.statusLog.Warn().Stringer("status", avail.Status).Msg("Output stream status")
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if p.pollInterval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollInterval):
			}
		} else {
			runtime.Gosched()
		}
	}
}

func (p *Pump) finish() error {
	p.state.Store(int32(PumpFinished))

	stopErr := p.stream.Stop()
	closeErr := p.stream.Close()

	log.Debug().Int64("frames", p.frames.Load()).Int64("writes", p.writes.Load()).Msg("Pump finished")

	if stopErr != nil {
		return fmt.Errorf("%w: stop stream: %w", ErrDevice, stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close stream: %w", ErrDevice, closeErr)
	}
	return nil
}

func (p *Pump) abort(cause error) error {
	p.state.Store(int32(PumpFailed))

	if err := p.stream.Abort(); err != nil {
		log.Debug().Err(err).Msg("Abort stream")
	}
	if err := p.stream.Close(); err != nil {
		log.Debug().Err(err).Msg("Close stream")
	}
	return cause
}

// Stats returns a snapshot of the pump's progress; safe for concurrent use
func (p *Pump) Stats() Stats {
	samples := p.samples.Load()
	var pos time.Duration
	if p.cfg.Channels > 0 && p.cfg.SampleRate > 0 {
		pos = time.Duration(samples/int64(p.cfg.Channels)) * time.Second / time.Duration(p.cfg.SampleRate)
	}

	return Stats{
		State:          PumpState(p.state.Load()),
		Frames:         p.frames.Load(),
		Writes:         p.writes.Load(),
		SamplesWritten: samples,
		Polls:          p.polls.Load(),
		Skipped:        p.skipped.Load(),
		Position:       pos,
	}
}

// Config returns the stream configuration the pump was built with
func (p *Pump) Config() StreamConfig { return p.cfg }
