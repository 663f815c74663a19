// Package metadata extracts structured meeting metadata from a transcript
// with a single chat-completion call routed through OpenRouter. It is a
// one-shot request/response step: no retry, no state.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/snarg/meetscribe/internal/langid"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	// DefaultModel is used when METADATA_MODEL is not set.
	DefaultModel = "anthropic/claude-3-haiku"

	// maxTranscriptChars caps the prompt size for very long meetings.
	maxTranscriptChars = 50000

	maxResponseTokens = 1024
)

// jsonObjectRe extracts the first JSON object from a model response that
// may wrap it in prose or code fences.
var jsonObjectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// Meeting is the extracted metadata document.
type Meeting struct {
	Title        string       `json:"title,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	KeyPoints    []string     `json:"keyPoints,omitempty"`
	ActionItems  []ActionItem `json:"actionItems,omitempty"`
	Participants []string     `json:"participants,omitempty"`
	Topics       []string     `json:"topics,omitempty"`
	Language     string       `json:"language,omitempty"`
}

// ActionItem is one task assigned during the meeting.
type ActionItem struct {
	Owner string `json:"owner"`
	Task  string `json:"task"`
}

// Extractor generates meeting metadata through an OpenRouter-hosted model.
type Extractor struct {
	client *openai.Client
	model  string
}

// NewExtractor creates an extractor using the given OpenRouter API key
// and model. An empty baseURL selects the production endpoint.
func NewExtractor(apiKey, model, baseURL string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Extractor{client: openai.NewClientWithConfig(cfg), model: model}
}

// Generate extracts metadata from the transcript. The prompt language
// follows the transcript's detected language; the response's first JSON
// object is parsed into the Meeting, and a missing language field is
// filled from the heuristic.
func (e *Extractor) Generate(ctx context.Context, transcript string) (*Meeting, error) {
	transcript = Truncate(transcript)
	lang := langid.Detect(transcript)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: maxResponseTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: Prompt(lang, transcript),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("metadata completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("metadata completion: empty response")
	}

	meeting, err := ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if meeting.Language == "" {
		meeting.Language = lang
	}
	return meeting, nil
}

// Truncate caps the transcript at maxTranscriptChars, marking the cut.
// The cut point backs up to a rune boundary so a multi-byte codepoint is
// never split in half.
func Truncate(transcript string) string {
	if len(transcript) <= maxTranscriptChars {
		return transcript
	}
	cut := maxTranscriptChars
	for cut > 0 && !utf8.RuneStart(transcript[cut]) {
		cut--
	}
	return transcript[:cut] + "\n\n[Transcript truncated...]"
}

// ParseResponse extracts the first JSON object from a model response and
// unmarshals it.
func ParseResponse(response string) (*Meeting, error) {
	raw := strings.TrimSpace(response)
	if m := jsonObjectRe.FindString(raw); m != "" {
		raw = m
	}
	meeting := &Meeting{}
	if err := json.Unmarshal([]byte(raw), meeting); err != nil {
		return nil, fmt.Errorf("parse metadata response: %w", err)
	}
	return meeting, nil
}

// Prompt returns the extraction prompt in the transcript's language.
func Prompt(lang, transcript string) string {
	if lang == langid.Hebrew {
		return fmt.Sprintf(hebrewPrompt, transcript)
	}
	return fmt.Sprintf(englishPrompt, transcript)
}

const englishPrompt = `Analyze this meeting transcript and extract metadata.

Transcript:
%s

Return JSON with this structure:
{
    "title": "Short descriptive meeting title (max 50 chars)",
    "summary": "2-3 sentence summary",
    "keyPoints": ["point 1", "point 2", "point 3"],
    "actionItems": [
        {"owner": "name", "task": "task description"}
    ],
    "participants": ["name1", "name2"],
    "topics": ["topic1", "topic2"],
    "language": "en"
}

Guidelines:
- topics should be lowercase, hyphen-separated English words
- If uncertain about something, omit it
- Return only valid JSON, no additional text`

const hebrewPrompt = `אנא נתח את תמליל הפגישה הבא וחלץ מטא-דאטה.

תמליל:
%s

החזר JSON עם המבנה הבא (בעברית):
{
    "title": "כותרת קצרה ותיאורית לפגישה (עד 50 תווים)",
    "summary": "סיכום של 2-3 משפטים",
    "keyPoints": ["נקודה 1", "נקודה 2", "נקודה 3"],
    "actionItems": [
        {"owner": "שם", "task": "תיאור המשימה"}
    ],
    "participants": ["שם1", "שם2"],
    "topics": ["topic1", "topic2"],
    "language": "he"
}

הנחיות:
- topics צריכים להיות באנגלית, באותיות קטנות, מופרדים במקף
- אם לא בטוח לגבי משהו, השמט אותו
- החזר רק JSON תקין, ללא טקסט נוסף`
