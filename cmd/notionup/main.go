// notionup publishes a processed meeting directory (metadata.json plus a
// transcript) as a page in a Notion database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/snarg/meetscribe/internal/notion"
)

func main() {
	var (
		envFile  = flag.String("env-file", ".env", "dotenv file with credentials")
		logLevel = flag.String("log-level", "info", "log level: debug|info|warn|error")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <transcript_directory>\n\n"+
			"Environment:\n  NOTION_API_KEY     Notion integration token\n"+
			"  NOTION_DATABASE_ID Target database ID\n\nFlags:\n", os.Args[0])
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

	if _, err := os.Stat(*envFile); err == nil {
		_ = godotenv.Load(*envFile)
	}

	apiKey := os.Getenv("NOTION_API_KEY")
	if apiKey == "" {
		log.Error().Msg("NOTION_API_KEY not set")
		os.Exit(1)
	}
	databaseID := os.Getenv("NOTION_DATABASE_ID")
	if databaseID == "" {
		log.Error().Msg("NOTION_DATABASE_ID not set")
		os.Exit(1)
	}

	uploader := notion.NewUploader(apiKey, databaseID)
	pageURL, err := uploader.Upload(context.Background(), flag.Arg(0))
	if err != nil {
		log.Error().Err(err).Msg("upload failed")
		os.Exit(1)
	}

	log.Info().Str("url", pageURL).Msg("created page")
	fmt.Println(pageURL)
}
