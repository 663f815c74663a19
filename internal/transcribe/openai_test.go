package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatalf("write test audio: %v", err)
	}
	return path
}

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	_, err := NewOpenAIClient("", "whisper-1", "", time.Minute)
	var credErr *CredentialMissingError
	if !errors.As(err, &credErr) {
		t.Fatalf("error = %v, want CredentialMissingError", err)
	}
	if credErr.Var != "OPENAI_API_KEY" {
		t.Errorf("Var = %q, want OPENAI_API_KEY", credErr.Var)
	}
}

func TestOpenAIClient_Transcribe(t *testing.T) {
	audio := writeTestAudio(t, "meeting.mp3")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q, want whisper-1", got)
		}
		if got := r.FormValue("language"); got != "en" {
			t.Errorf("language field = %q, want en", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("file field: %v", err)
		}
		f.Close()
		if hdr.Filename != "meeting.mp3" {
			t.Errorf("filename = %q, want meeting.mp3", hdr.Filename)
		}
		if got := hdr.Header.Get("Content-Type"); got != "audio/mpeg" {
			t.Errorf("file content type = %q, want audio/mpeg", got)
		}
		w.Write([]byte(`{"text": "Hello world"}`))
	}))
	defer srv.Close()

	oc, err := NewOpenAIClient("test-key", "whisper-1", srv.URL, time.Minute)
	if err != nil {
		t.Fatalf("NewOpenAIClient: %v", err)
	}

	result, err := oc.Transcribe(context.Background(), audio, Opts{Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Text != "Hello world" {
		t.Errorf("Text = %q, want Hello world", result.Text)
	}
	if result.Language != "en" {
		t.Errorf("Language = %q, want en", result.Language)
	}
	if result.Segments != nil {
		t.Errorf("Segments = %v, want nil for API provider", result.Segments)
	}
}

func TestOpenAIClient_AutoLanguageOmitted(t *testing.T) {
	audio := writeTestAudio(t, "meeting.wav")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Error("language field sent, want omitted for auto")
		}
		w.Write([]byte(`{"text": "hi"}`))
	}))
	defer srv.Close()

	oc, _ := NewOpenAIClient("test-key", "whisper-1", srv.URL, time.Minute)
	result, err := oc.Transcribe(context.Background(), audio, Opts{Language: LanguageAuto})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Language != LanguageAuto {
		t.Errorf("Language = %q, want auto", result.Language)
	}
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	audio := writeTestAudio(t, "meeting.wav")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	oc, _ := NewOpenAIClient("test-key", "whisper-1", srv.URL, time.Minute)
	_, err := oc.Transcribe(context.Background(), audio, Opts{})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", upErr.StatusCode)
	}
	if upErr.Body != `{"error": "rate limited"}` {
		t.Errorf("Body = %q, want raw response body", upErr.Body)
	}
	if upErr.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", upErr.Provider)
	}
}

func TestOpenAIClient_MissingFile(t *testing.T) {
	oc, _ := NewOpenAIClient("test-key", "whisper-1", "http://localhost:1", time.Minute)
	_, err := oc.Transcribe(context.Background(), "/nonexistent/audio.wav", Opts{})
	if err == nil {
		t.Fatal("expected error for missing audio file, got nil")
	}
}
