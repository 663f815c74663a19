// genmeta extracts AI-generated metadata (title, summary, key points,
// action items) from a meeting transcript and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snarg/meetscribe/internal/config"
	"github.com/snarg/meetscribe/internal/metadata"
)

func main() {
	var (
		model    = flag.String("model", os.Getenv("METADATA_MODEL"), "OpenRouter model for extraction")
		envFile  = flag.String("env-file", "", "dotenv file with API credentials (default .env)")
		logLevel = flag.String("log-level", "warn", "log level: debug|info|warn|error")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <transcript_path>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	transcript, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("read transcript")
		os.Exit(1)
	}
	if strings.TrimSpace(string(transcript)) == "" {
		log.Error().Msg("transcript is empty")
		os.Exit(1)
	}

	creds, err := config.LoadCredentials(*envFile)
	if err != nil {
		log.Error().Err(err).Msg("load credentials")
		os.Exit(1)
	}
	if creds.OpenRouterKey == "" {
		log.Error().Msg("OPENROUTER_API_KEY not set")
		os.Exit(1)
	}

	extractor := metadata.NewExtractor(creds.OpenRouterKey, *model, "")
	meeting, err := extractor.Generate(context.Background(), string(transcript))
	if err != nil {
		log.Error().Err(err).Msg("metadata generation failed")
		os.Exit(1)
	}

	out, err := json.Marshal(meeting)
	if err != nil {
		log.Error().Err(err).Msg("encode metadata")
		os.Exit(1)
	}
	fmt.Println(string(out))
}
