package transcribe

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/meetscribe/internal/config"
)

// Default models per provider, matching the provider APIs' own defaults.
const (
	defaultLocalModel      = "small"
	defaultOpenAIModel     = "whisper-1"
	defaultOpenRouterModel = "openai/whisper-large-v3"
	defaultMultimodalModel = "openai/gpt-4o-audio-preview"
)

// DefaultTimeout bounds a single remote transcription call.
const DefaultTimeout = 10 * time.Minute

// New builds the provider selected by name from the configuration and
// environment credentials. Unknown names fail before any credential check
// or network work; missing credentials fail before any network call.
func New(name string, cfg *config.Config, creds *config.Credentials, log zerolog.Logger) (Provider, error) {
	tc := cfg.Transcription
	switch name {
	case "local":
		model := tc.Local.Model
		if model == "" {
			model = defaultLocalModel
		}
		return NewLocalClient(model, tc.Local.ModelDir, log), nil

	case "openai":
		model := tc.OpenAI.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return NewOpenAIClient(creds.OpenAIKey, model, "", DefaultTimeout)

	case "openrouter":
		model := tc.OpenRouter.Model
		if model == "" {
			model = defaultOpenRouterModel
		}
		return NewOpenRouterClient(creds.OpenRouterKey, model, "", DefaultTimeout)

	case "multimodal":
		vendor := tc.Multimodal.Provider
		if vendor == "" {
			vendor = VendorOpenRouter
		}
		model := tc.Multimodal.Model
		if model == "" {
			model = defaultMultimodalModel
		}
		apiKey, apiKeyVar := credentialForVendor(vendor, creds)
		return NewMultimodalClient(vendor, apiKey, apiKeyVar, model, "", DefaultTimeout)

	default:
		return nil, &UnknownProviderError{Name: name}
	}
}

// credentialForVendor picks the API token and its environment variable
// name for a multimodal vendor. Unknown vendors return empty values; the
// client constructor rejects the vendor itself.
func credentialForVendor(vendor string, creds *config.Credentials) (key, keyVar string) {
	switch vendor {
	case VendorOpenAI:
		return creds.OpenAIKey, "OPENAI_API_KEY"
	case VendorOpenRouter:
		return creds.OpenRouterKey, "OPENROUTER_API_KEY"
	case VendorAnthropic:
		return creds.AnthropicKey, "ANTHROPIC_API_KEY"
	default:
		return "", ""
	}
}
