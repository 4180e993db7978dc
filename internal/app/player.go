// ABOUTME: Main player application orchestration
// ABOUTME: Opens the file, negotiates the output and runs the pump alongside the TUI
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/mp3play/internal/ui"
	"github.com/harperreed/mp3play/internal/version"
	"github.com/harperreed/mp3play/pkg/audio/decode"
	"github.com/harperreed/mp3play/pkg/audio/output"
	"github.com/harperreed/mp3play/pkg/playback"
)

// Player represents the main player application
type Player struct {
	config   Config
	registry *decode.Registry
	newHost  func(output.Backend, output.Options) (output.Host, error)
	session  string
	log      zerolog.Logger

	pump   atomic.Pointer[playback.Pump]
	status func(ui.StatusMsg)
}

// New creates a new player
func New(config Config) *Player {
	session := uuid.New().String()

	return &Player{
		config:   config,
		registry: decode.Default(),
		newHost:  output.New,
		session:  session,
		log:      log.With().Str("session", session).Logger(),
		status:   func(ui.StatusMsg) {},
	}
}

// Run plays the configured file, with the TUI when enabled.
// Quitting the TUI or cancelling ctx stops playback and is not an error.
func (p *Player) Run(ctx context.Context) error {
	if err := p.config.Validate(); err != nil {
		return err
	}

	var err error
	if p.config.UseTUI {
		err = p.runWithTUI(ctx)
	} else {
		err = p.Play(ctx)
	}

	if errors.Is(err, context.Canceled) {
		p.log.Info().Msg("Playback cancelled")
		return nil
	}
	return err
}

// runWithTUI supervises the pump, the TUI and the stats loop
func (p *Player) runWithTUI(ctx context.Context) error {
	tuiProg, err := ui.Run()
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	p.status = func(msg ui.StatusMsg) { tuiProg.Send(msg) }

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer tuiProg.Quit()
		err := p.Play(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.status(ui.StatusMsg{Err: err.Error()})
		}
		return err
	})

	g.Go(func() error {
		defer cancel()
		if _, err := tuiProg.Run(); err != nil {
			return fmt.Errorf("TUI: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		p.statsLoop(ctx)
		return nil
	})

	return g.Wait()
}

// statsLoop periodically pushes pump progress to the TUI
func (p *Player) statsLoop(ctx context.Context) {
	ticker := time.NewTicker(p.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if pump := p.pump.Load(); pump != nil {
				p.status(statsMsg(pump.Stats()))
			}
		case <-ctx.Done():
			return
		}
	}
}

func statsMsg(s playback.Stats) ui.StatusMsg {
	return ui.StatusMsg{
		State:    s.State.String(),
		Stats:    true,
		Frames:   s.Frames,
		Writes:   s.Writes,
		Polls:    s.Polls,
		Skipped:  s.Skipped,
		Position: s.Position,
	}
}

// Play decodes the configured file to the output until it ends, fails or ctx is cancelled
func (p *Player) Play(ctx context.Context) error {
	path := p.config.Path
	p.log.Info().
		Str("file", path).
		Str("product", version.Product).
		Str("version", version.Version).
		Msg("Starting playback")
	p.status(ui.StatusMsg{File: path, Session: p.session, State: "opening"})

	open, ok := p.registry.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %s: unsupported file type (supported: %v)", playback.ErrInvalidInput, path, p.registry.Extensions())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", playback.ErrInvalidInput, err)
	}

	dec := open(f)
	defer func() {
		if err := dec.Close(); err != nil {
			p.log.Debug().Err(err).Msg("Close decoder")
		}
	}()

	src := playback.NewFrameSource(dec)
	first, err := src.Next()
	if err != nil {
		return err
	}
	p.log.Info().
		Int("sample_rate", first.SampleRate).
		Int("channels", first.Channels()).
		Int("skipped", src.Skipped()).
		Msg("First frame decoded")

	host, err := p.newHost(p.config.Backend, output.Options{
		WAVPath:        p.config.WAVPath,
		BufferDuration: p.config.BufferDuration,
	})
	if err != nil {
		return fmt.Errorf("%w: %s backend: %w", playback.ErrDevice, p.config.Backend, err)
	}
	defer func() {
		if err := host.Close(); err != nil {
			p.log.Debug().Err(err).Msg("Close audio host")
		}
	}()

	cfg, stream, err := playback.Negotiate(host, first)
	if err != nil {
		return err
	}

	var opts []playback.Option
	if p.config.PollInterval > 0 {
		opts = append(opts, playback.WithPollInterval(p.config.PollInterval))
	}
	pump := playback.NewPump(src, stream, cfg, opts...)
	p.pump.Store(pump)

	p.status(ui.StatusMsg{
		Backend:         host.Name(),
		Device:          cfg.Device.Name,
		HostAPI:         cfg.Device.HostAPI,
		SampleRate:      cfg.SampleRate,
		Channels:        cfg.Channels,
		FramesPerBuffer: cfg.FramesPerBuffer,
		Latency:         cfg.Latency,
		State:           playback.PumpRunning.String(),
	})

	err = pump.Run(ctx, first)

	stats := pump.Stats()
	p.status(statsMsg(stats))
	p.log.Info().
		Int64("frames", stats.Frames).
		Int64("writes", stats.Writes).
		Int64("polls", stats.Polls).
		Dur("position", stats.Position).
		Msg("Playback ended")

	return err
}

// Stats returns the pump's progress, or zero stats before the stream is open
func (p *Player) Stats() playback.Stats {
	if pump := p.pump.Load(); pump != nil {
		return pump.Stats()
	}
	return playback.Stats{}
}

// Session returns the playback session id used in logs
func (p *Player) Session() string { return p.session }
