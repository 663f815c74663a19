package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const openRouterTranscriptionsURL = "https://openrouter.ai/api/v1/audio/transcriptions"

// OpenRouterClient calls OpenRouter's transcription endpoint with a JSON
// body carrying the base64-encoded audio. Implements the Provider interface.
type OpenRouterClient struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// openRouterRequest is the JSON request body for the OpenRouter endpoint.
type openRouterRequest struct {
	Model          string `json:"model"`
	File           string `json:"file"` // base64-encoded audio
	ResponseFormat string `json:"response_format"`
}

// NewOpenRouterClient creates a new OpenRouter transcription client.
// An empty url selects the production endpoint.
func NewOpenRouterClient(apiKey, model, url string, timeout time.Duration) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, &CredentialMissingError{Var: "OPENROUTER_API_KEY"}
	}
	if url == "" {
		url = openRouterTranscriptionsURL
	}
	return &OpenRouterClient{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (rc *OpenRouterClient) Name() string { return "openrouter" }

// Model returns the configured model identifier.
func (rc *OpenRouterClient) Model() string { return rc.model }

// Transcribe sends the base64-encoded audio and returns the transcribed
// text. The endpoint responds with plain text (response_format "text") and
// never reports a language, so the result language is always "auto".
func (rc *OpenRouterClient) Transcribe(ctx context.Context, audioPath string, _ Opts) (*Result, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	payload, err := json.Marshal(openRouterRequest{
		Model:          rc.model,
		File:           base64.StdEncoding.EncodeToString(audio),
		ResponseFormat: "text",
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+rc.apiKey)

	resp, err := rc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: "openrouter", StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &Result{Text: strings.TrimSpace(string(body)), Language: LanguageAuto}, nil
}
