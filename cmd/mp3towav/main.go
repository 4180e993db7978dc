// ABOUTME: Entry point for the mp3towav converter
// ABOUTME: Runs the playback pipeline into a WAV file instead of a sound card
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/mp3play/internal/app"
	"github.com/harperreed/mp3play/internal/logging"
	"github.com/harperreed/mp3play/pkg/audio/output"
)

var (
	logFile = flag.String("log-file", "", "Log file path (default: console only)")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] in.mp3 out.wav\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	closer, err := logging.Setup(logging.Options{File: *logFile, Console: true, Debug: *debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	config := app.DefaultConfig()
	config.Path = flag.Arg(0)
	config.Backend = output.BackendWAV
	config.WAVPath = flag.Arg(1)
	config.UseTUI = false

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	player := app.New(config)
	if err := player.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Conversion failed")
		stop()
		closer.Close()
		os.Exit(1)
	}

	stats := player.Stats()
	log.Info().
		Str("output", config.WAVPath).
		Int64("frames", stats.Frames).
		Dur("duration", stats.Position).
		Msg("Conversion complete")
}
