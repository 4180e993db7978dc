// ABOUTME: Entry point for the mp3play audio player
// ABOUTME: Parses CLI flags, sets up logging and plays one file
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/mp3play/internal/app"
	"github.com/harperreed/mp3play/internal/logging"
	"github.com/harperreed/mp3play/internal/version"
	"github.com/harperreed/mp3play/pkg/audio/output"
)

var (
	backend      = flag.String("backend", "auto", "Audio backend: "+backendList())
	wavOut       = flag.String("wav-out", "", "Output file for the wav backend")
	pollInterval = flag.Duration("poll-interval", 0, "Sleep between output capacity checks (0 yields instead)")
	bufferSize   = flag.Duration("buffer", output.DefaultBufferDuration, "Software buffer size for the malgo and oto backends")
	logFile      = flag.String("log-file", "mp3play.log", "Log file path")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func backendList() string {
	names := make([]string, len(output.Backends))
	for i, b := range output.Backends {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file.mp3\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	useTUI := !*noTUI

	// TUI mode logs only to the file
	closer, err := logging.Setup(logging.Options{
		File:    *logFile,
		Console: !useTUI,
		Debug:   *debug,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(useTUI); err != nil {
		log.Error().Err(err).Msg("Playback failed")
		_ = closer.Close()
		if useTUI {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	_ = closer.Close()
}

func run(useTUI bool) error {
	b, err := output.ParseBackend(*backend)
	if err != nil {
		return err
	}

	config := app.DefaultConfig()
	config.Path = flag.Arg(0)
	config.Backend = b
	config.WAVPath = *wavOut
	config.PollInterval = *pollInterval
	config.BufferDuration = *bufferSize
	config.UseTUI = useTUI

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	player := app.New(config)
	log.Info().Str("session", player.Session()).Str("backend", string(b)).Msg("Starting mp3play")

	return player.Run(ctx)
}
