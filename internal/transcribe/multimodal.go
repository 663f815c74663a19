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

// Multimodal vendor dialects. Each vendor has its own endpoint path,
// authentication header, request body shape, and response envelope.
const (
	VendorOpenRouter = "openrouter"
	VendorOpenAI     = "openai"
	VendorAnthropic  = "anthropic"
)

const (
	openRouterChatBaseURL = "https://openrouter.ai/api/v1"
	openAIChatBaseURL     = "https://api.openai.com/v1"
	anthropicBaseURL      = "https://api.anthropic.com/v1"

	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096

	// transcribePrompt is the instruction sent alongside the audio part.
	transcribePrompt = "Transcribe this audio exactly. Output only the transcription, no commentary."
)

// MultimodalClient transcribes audio through a chat-completion model that
// accepts audio content parts. The request and response shapes depend on
// the configured vendor dialect. Implements the Provider interface.
type MultimodalClient struct {
	vendor  string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// ---- OpenAI/OpenRouter dialect ----------------------------------------------

// chatAudioPart is one content element of a chat message: either an
// input_audio part or a text part.
type chatAudioPart struct {
	Type       string          `json:"type"`
	InputAudio *chatInputAudio `json:"input_audio,omitempty"`
	Text       string          `json:"text,omitempty"`
}

type chatInputAudio struct {
	Data   string `json:"data"` // base64-encoded audio
	Format string `json:"format"`
}

type chatMessage struct {
	Role    string          `json:"role"`
	Content []chatAudioPart `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatResponse is the choices-array envelope returned by OpenAI and
// OpenRouter chat completions.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ---- Anthropic dialect ------------------------------------------------------

// anthropicPart is one content element of an Anthropic message: either an
// audio block with a base64 source or a text block.
type anthropicPart struct {
	Type   string           `json:"type"`
	Source *anthropicSource `json:"source,omitempty"`
	Text   string           `json:"text,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"` // "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicMessage struct {
	Role    string          `json:"role"`
	Content []anthropicPart `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicResponse is the content-array envelope returned by the
// Anthropic messages endpoint.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewMultimodalClient creates a multimodal transcription client for the
// given vendor dialect. An empty baseURL selects the vendor's production
// endpoint. apiKeyVar names the environment variable the key came from,
// for the credential error message.
func NewMultimodalClient(vendor, apiKey, apiKeyVar, model, baseURL string, timeout time.Duration) (*MultimodalClient, error) {
	switch vendor {
	case VendorOpenRouter, VendorOpenAI, VendorAnthropic:
	default:
		return nil, &UnsupportedVendorError{Vendor: vendor}
	}
	if apiKey == "" {
		return nil, &CredentialMissingError{Var: apiKeyVar}
	}
	if baseURL == "" {
		switch vendor {
		case VendorOpenRouter:
			baseURL = openRouterChatBaseURL
		case VendorOpenAI:
			baseURL = openAIChatBaseURL
		case VendorAnthropic:
			baseURL = anthropicBaseURL
		}
	}
	return &MultimodalClient{
		vendor:  vendor,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (mc *MultimodalClient) Name() string { return "multimodal" }

// Model returns the configured model identifier.
func (mc *MultimodalClient) Model() string { return mc.model }

// Vendor returns the configured vendor dialect.
func (mc *MultimodalClient) Vendor() string { return mc.vendor }

// Transcribe embeds the base64-encoded audio in a chat-style request and
// returns the model's transcription. Chat models never report a detected
// language, so the result language is always "auto".
func (mc *MultimodalClient) Transcribe(ctx context.Context, audioPath string, _ Opts) (*Result, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(audio)

	var text string
	if mc.vendor == VendorAnthropic {
		text, err = mc.transcribeAnthropic(ctx, audioPath, encoded)
	} else {
		text, err = mc.transcribeChat(ctx, audioPath, encoded)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Text: strings.TrimSpace(text), Language: LanguageAuto}, nil
}

// transcribeChat sends the OpenAI/OpenRouter chat-completions request and
// parses the choices-array response.
func (mc *MultimodalClient) transcribeChat(ctx context.Context, audioPath, encoded string) (string, error) {
	payload := chatRequest{
		Model: mc.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatAudioPart{
				{Type: "input_audio", InputAudio: &chatInputAudio{Data: encoded, Format: FormatForPath(audioPath)}},
				{Type: "text", Text: transcribePrompt},
			},
		}},
	}

	body, err := mc.post(ctx, mc.baseURL+"/chat/completions", payload, map[string]string{
		"Authorization": "Bearer " + mc.apiKey,
	})
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices", mc.vendor)
	}
	return result.Choices[0].Message.Content, nil
}

// transcribeAnthropic sends the Anthropic messages request and parses the
// content-array response. The "anthropic/" routing prefix used by model
// catalogs is stripped before the direct API call.
func (mc *MultimodalClient) transcribeAnthropic(ctx context.Context, audioPath, encoded string) (string, error) {
	payload := anthropicRequest{
		Model:     strings.TrimPrefix(mc.model, "anthropic/"),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicPart{
				{Type: "audio", Source: &anthropicSource{
					Type:      "base64",
					MediaType: MIMEForPath(audioPath),
					Data:      encoded,
				}},
				{Type: "text", Text: transcribePrompt},
			},
		}},
	}

	body, err := mc.post(ctx, mc.baseURL+"/messages", payload, map[string]string{
		"x-api-key":         mc.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", err
	}

	var result anthropicResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("anthropic response has no content")
	}
	return result.Content[0].Text, nil
}

// post sends a JSON request and returns the response body, converting any
// non-200 status into an UpstreamError carrying the raw body.
func (mc *MultimodalClient) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := mc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", mc.vendor, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: mc.vendor, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
