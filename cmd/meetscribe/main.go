package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/snarg/meetscribe/internal/pipeline"
)

var version = "dev"

func main() {
	var (
		provider  = flag.String("provider", "", "transcription provider: local|openai|openrouter|multimodal (default: from config)")
		configDir = flag.String("config-dir", ".", "directory containing config.json")
		envFile   = flag.String("env-file", "", "dotenv file with API credentials (default .env)")
		logLevel  = flag.String("log-level", "info", "log level: debug|info|warn|error")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <audio_file>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	audioPath := flag.Arg(0)

	log.Info().Str("version", version).Msg("meetscribe starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome, err := pipeline.Run(ctx, audioPath, pipeline.Options{
		Provider:  *provider,
		ConfigDir: *configDir,
		EnvFile:   *envFile,
		Log:       log,
	})
	if err != nil {
		log.Error().Err(err).Msg("transcription failed")
		os.Exit(1)
	}

	log.Info().
		Str("provider", outcome.Provider).
		Str("model", outcome.Model).
		Str("language", outcome.Language).
		Msg("done")
	fmt.Printf("Text: %s\nSRT:  %s\nVTT:  %s\n",
		outcome.Artifacts.TXT, outcome.Artifacts.SRT, outcome.Artifacts.VTT)
}
