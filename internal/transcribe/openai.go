package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"
)

const openAITranscriptionsURL = "https://api.openai.com/v1/audio/transcriptions"

// OpenAIClient calls the OpenAI audio transcriptions endpoint with a
// multipart file upload. Implements the Provider interface.
type OpenAIClient struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// openAIResponse is the JSON response from the transcriptions endpoint.
type openAIResponse struct {
	Text string `json:"text"`
}

// NewOpenAIClient creates a new OpenAI transcription client.
// An empty url selects the production endpoint.
func NewOpenAIClient(apiKey, model, url string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, &CredentialMissingError{Var: "OPENAI_API_KEY"}
	}
	if url == "" {
		url = openAITranscriptionsURL
	}
	return &OpenAIClient{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the provider name.
func (oc *OpenAIClient) Name() string { return "openai" }

// Model returns the configured model identifier.
func (oc *OpenAIClient) Model() string { return oc.model }

// Transcribe uploads the audio file and returns the transcribed text.
// The API does not report a detected language, so the result carries the
// caller's hint or "auto".
func (oc *OpenAIClient) Transcribe(ctx context.Context, audioPath string, opts Opts) (*Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	mime := opts.MIME
	if mime == "" {
		mime = MIMEForPath(audioPath)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// Audio file part with an explicit content type; the API rejects
	// application/octet-stream for some container formats.
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(audioPath)))
	hdr.Set("Content-Type", mime)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	w.WriteField("model", oc.model)

	lang := opts.Language
	if lang == LanguageAuto {
		lang = ""
	}
	if lang != "" {
		w.WriteField("language", lang)
	}

	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oc.url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+oc.apiKey)

	resp, err := oc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result openAIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if lang == "" {
		lang = LanguageAuto
	}
	return &Result{Text: result.Text, Language: lang}, nil
}
