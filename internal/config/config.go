package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ConfigFile is the primary configuration document name; ExampleFile is
// the fallback template used when no real config has been written yet.
const (
	ConfigFile  = "config.json"
	ExampleFile = "config.example.json"
)

// DefaultProvider is used when neither the CLI flag nor the config
// document names a provider.
const DefaultProvider = "local"

// ErrConfigMissing indicates neither the primary nor the fallback
// configuration document exists.
var ErrConfigMissing = errors.New("no configuration file found")

// Config is the parsed configuration document.
type Config struct {
	Transcription Transcription `json:"transcription"`
}

// Transcription holds the provider selection and one sub-section per
// provider variant. Only the active provider's section is consulted;
// inactive sections are never validated.
type Transcription struct {
	Provider   string             `json:"provider"`
	Language   string             `json:"language"` // optional hint; "auto" or empty lets the backend decide
	Local      LocalSettings      `json:"local"`
	OpenAI     ModelSettings      `json:"openai"`
	OpenRouter ModelSettings      `json:"openrouter"`
	Multimodal MultimodalSettings `json:"multimodal"`
}

// LocalSettings configures the on-device whisper backend.
type LocalSettings struct {
	Model    string `json:"model"`     // size name or ggml file path
	ModelDir string `json:"model_dir"` // where size names are resolved; default "models"
}

// ModelSettings configures an API backend that only needs a model name.
type ModelSettings struct {
	Model string `json:"model"`
}

// MultimodalSettings configures the chat-completion backend.
type MultimodalSettings struct {
	Provider string `json:"provider"` // vendor dialect: openrouter|openai|anthropic
	Model    string `json:"model"`
}

// Credentials are API tokens read from the environment.
type Credentials struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY"`
	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
}

// Load reads the configuration document from dir, falling back to the
// example template when the primary file is absent.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(dir, ExampleFile)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w in %s", ErrConfigMissing, dir)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve returns the active provider name. An explicit value (CLI flag)
// wins over the configured default, which wins over the built-in default.
func (c *Config) Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c.Transcription.Provider != "" {
		return c.Transcription.Provider
	}
	return DefaultProvider
}

// LoadCredentials loads a .env file when present (silent if missing) and
// parses API tokens from the environment.
func LoadCredentials(envFile string) (*Credentials, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, err
	}
	return creds, nil
}
