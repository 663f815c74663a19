package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/snarg/meetscribe/internal/langid"
)

func TestParseResponse(t *testing.T) {
	t.Run("bare json", func(t *testing.T) {
		m, err := ParseResponse(`{"title": "Standup", "summary": "Daily sync."}`)
		if err != nil {
			t.Fatalf("ParseResponse: %v", err)
		}
		if m.Title != "Standup" {
			t.Errorf("Title = %q, want Standup", m.Title)
		}
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		m, err := ParseResponse("Here is the metadata:\n{\"title\": \"Standup\"}\nLet me know if you need more.")
		if err != nil {
			t.Fatalf("ParseResponse: %v", err)
		}
		if m.Title != "Standup" {
			t.Errorf("Title = %q, want Standup", m.Title)
		}
	})

	t.Run("code fence", func(t *testing.T) {
		m, err := ParseResponse("```json\n{\"title\": \"Standup\", \"actionItems\": [{\"owner\": \"Dana\", \"task\": \"ship it\"}]}\n```")
		if err != nil {
			t.Fatalf("ParseResponse: %v", err)
		}
		if len(m.ActionItems) != 1 || m.ActionItems[0].Owner != "Dana" {
			t.Errorf("ActionItems = %+v, want Dana's task", m.ActionItems)
		}
	})

	t.Run("no json at all", func(t *testing.T) {
		if _, err := ParseResponse("I cannot analyze this transcript."); err == nil {
			t.Fatal("expected error for response without JSON, got nil")
		}
	})
}

func TestTruncate(t *testing.T) {
	short := "short transcript"
	if got := Truncate(short); got != short {
		t.Errorf("Truncate(short) = %q, want unchanged", got)
	}

	long := strings.Repeat("a", 60000)
	got := Truncate(long)
	if !strings.HasSuffix(got, "[Transcript truncated...]") {
		t.Error("Truncate(long) missing truncation marker")
	}
	if len(got) >= len(long) {
		t.Errorf("Truncate(long) length = %d, want shorter than %d", len(got), len(long))
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// The odd-length ASCII prefix puts the byte cap in the middle of a
	// 2-byte Hebrew rune; the cut must back up instead of leaving half
	// a rune behind.
	long := "a" + strings.Repeat("ש", 30000)
	got := Truncate(long)
	if !utf8.ValidString(got) {
		t.Error("Truncate produced invalid UTF-8")
	}
	if strings.ContainsRune(got, utf8.RuneError) {
		t.Error("Truncate left a replacement character at the cut")
	}
	if !strings.HasSuffix(got, "[Transcript truncated...]") {
		t.Error("Truncate missing truncation marker")
	}
}

func TestPrompt(t *testing.T) {
	en := Prompt(langid.English, "transcript body")
	if !strings.Contains(en, "transcript body") {
		t.Error("english prompt missing transcript")
	}
	if !strings.Contains(en, "Return JSON") {
		t.Error("english prompt missing JSON instruction")
	}

	he := Prompt(langid.Hebrew, "transcript body")
	if !strings.Contains(he, "transcript body") {
		t.Error("hebrew prompt missing transcript")
	}
	if he == en {
		t.Error("hebrew prompt identical to english prompt")
	}

	// Unknown falls back to english.
	if Prompt(langid.Unknown, "x") != Prompt(langid.English, "x") {
		t.Error("unknown language should use the english prompt")
	}
}

func TestExtractor_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "anthropic/claude-3-haiku" {
			t.Errorf("model = %q, want default", req.Model)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "planning meeting") {
			t.Errorf("prompt does not embed the transcript")
		}

		resp := `{"choices": [{"message": {"content": "{\"title\": \"Planning\", \"topics\": [\"roadmap\"]}"}}]}`
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(resp))
	}))
	defer srv.Close()

	e := NewExtractor("test-key", "", srv.URL)
	m, err := e.Generate(context.Background(), "This was the planning meeting for next quarter.")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.Title != "Planning" {
		t.Errorf("Title = %q, want Planning", m.Title)
	}
	if len(m.Topics) != 1 || m.Topics[0] != "roadmap" {
		t.Errorf("Topics = %v, want [roadmap]", m.Topics)
	}
	// Model omitted language; the heuristic fills it.
	if m.Language != langid.English {
		t.Errorf("Language = %q, want en from heuristic", m.Language)
	}
}
