package transcribe

import (
	"context"
	"time"
)

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts Opts) (*Result, error)
	Name() string  // "local", "openai", "openrouter", "multimodal"
	Model() string // model identifier for logs
}

// Opts are per-request options shared by all providers.
type Opts struct {
	// Language is an ISO-639-1 hint. Empty or "auto" lets the backend decide.
	Language string
	// MIME is the audio content type derived from the file extension.
	// Empty means "derive from the path".
	MIME string
}

// Result is the common transcription result from any provider.
type Result struct {
	Text     string
	Language string    // ISO-639-1 code, or "auto" when the backend cannot tell
	Segments []Segment // nil for API-based providers; only the local backend has timing
}

// Segment is a timed slice of transcribed audio from the local backend.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// LanguageAuto is the language tag used when a backend cannot report one.
const LanguageAuto = "auto"
