// Package pipeline drives a single recording through provider selection,
// transcription, and caption synthesis.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/snarg/meetscribe/internal/caption"
	"github.com/snarg/meetscribe/internal/config"
	"github.com/snarg/meetscribe/internal/langid"
	"github.com/snarg/meetscribe/internal/transcribe"
)

// Options configure one pipeline run.
type Options struct {
	// Provider overrides the configured default when non-empty.
	Provider string
	// ConfigDir is where config.json / config.example.json live.
	ConfigDir string
	// EnvFile is the dotenv file consulted for credentials ("" = ".env").
	EnvFile string
	// Factory builds the provider; nil uses transcribe.New. Tests inject
	// fakes here.
	Factory ProviderFactory
	Log     zerolog.Logger
}

// ProviderFactory builds a named provider from configuration.
type ProviderFactory func(name string, cfg *config.Config, creds *config.Credentials, log zerolog.Logger) (transcribe.Provider, error)

// Outcome reports a completed run.
type Outcome struct {
	Provider  string
	Model     string
	Language  string
	Artifacts *caption.Artifacts
}

// Run processes one audio file start to finish: resolve the provider,
// invoke it, fill in a language if the backend reported none, and write
// the caption artifacts beside the input. Any failure surfaces
// immediately; there is no retry and no fallback to another provider,
// and nothing is written unless transcription fully succeeds.
func Run(ctx context.Context, audioPath string, opts Options) (*Outcome, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file: %w", err)
	}

	cfg, err := config.Load(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	creds, err := config.LoadCredentials(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	factory := opts.Factory
	if factory == nil {
		factory = transcribe.New
	}

	name := cfg.Resolve(opts.Provider)
	provider, err := factory(name, cfg, creds, opts.Log)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	opts.Log.Info().
		Str("provider", provider.Name()).
		Str("model", provider.Model()).
		Str("audio", audioPath).
		Msg("transcribing")

	result, err := provider.Transcribe(ctx, audioPath, transcribe.Opts{
		Language: cfg.Transcription.Language,
		MIME:     transcribe.MIMEForPath(audioPath),
	})
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}

	lang := result.Language
	if lang == "" || lang == transcribe.LanguageAuto {
		lang = langid.Detect(result.Text)
		opts.Log.Debug().Str("language", lang).Msg("language from heuristic")
	}

	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	artifacts, err := caption.Synthesize(base, result.Text, lang)
	if err != nil {
		return nil, err
	}

	opts.Log.Info().
		Str("txt", artifacts.TXT).
		Str("srt", artifacts.SRT).
		Str("vtt", artifacts.VTT).
		Msg("transcription complete")

	return &Outcome{
		Provider:  provider.Name(),
		Model:     provider.Model(),
		Language:  lang,
		Artifacts: artifacts,
	}, nil
}
