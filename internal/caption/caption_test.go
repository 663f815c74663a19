package caption

import (
	"os"
	"path/filepath"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestSynthesize(t *testing.T) {
	base := filepath.Join(t.TempDir(), "meeting")

	a, err := Synthesize(base, "Hello\nWorld", "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if got := readFile(t, a.TXT); got != "Hello\nWorld" {
		t.Errorf("txt = %q, want unmodified text", got)
	}

	wantSRT := "1\n00:00:00,000 --> 00:00:00,000\nHello\n\n" +
		"2\n00:00:00,000 --> 00:00:00,000\nWorld\n"
	if got := readFile(t, a.SRT); got != wantSRT {
		t.Errorf("srt = %q, want %q", got, wantSRT)
	}

	if got := readFile(t, a.VTT); got != "WEBVTT\n\nHello\nWorld" {
		t.Errorf("vtt = %q, want header + raw text", got)
	}
}

func TestSynthesize_SkipsEmptyLines(t *testing.T) {
	base := filepath.Join(t.TempDir(), "meeting")

	a, err := Synthesize(base, "First\n\n\n  \nSecond\n", "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	wantSRT := "1\n00:00:00,000 --> 00:00:00,000\nFirst\n\n" +
		"2\n00:00:00,000 --> 00:00:00,000\nSecond\n"
	if got := readFile(t, a.SRT); got != wantSRT {
		t.Errorf("srt = %q, want blank lines skipped with sequential numbering", got)
	}
}

func TestSynthesize_Idempotent(t *testing.T) {
	base := filepath.Join(t.TempDir(), "meeting")

	if _, err := Synthesize(base, "stale first run", "en"); err != nil {
		t.Fatalf("first Synthesize: %v", err)
	}
	a1, err := Synthesize(base, "Hello\nWorld", "en")
	if err != nil {
		t.Fatalf("second Synthesize: %v", err)
	}
	first := map[string]string{
		"txt": readFile(t, a1.TXT),
		"srt": readFile(t, a1.SRT),
		"vtt": readFile(t, a1.VTT),
	}

	a2, err := Synthesize(base, "Hello\nWorld", "en")
	if err != nil {
		t.Fatalf("third Synthesize: %v", err)
	}
	if got := readFile(t, a2.TXT); got != first["txt"] {
		t.Errorf("txt not byte-identical on rerun: %q vs %q", got, first["txt"])
	}
	if got := readFile(t, a2.SRT); got != first["srt"] {
		t.Errorf("srt not byte-identical on rerun: %q vs %q", got, first["srt"])
	}
	if got := readFile(t, a2.VTT); got != first["vtt"] {
		t.Errorf("vtt not byte-identical on rerun: %q vs %q", got, first["vtt"])
	}
}

func TestSynthesize_ArtifactPaths(t *testing.T) {
	base := filepath.Join(t.TempDir(), "standup")
	a, err := Synthesize(base, "hi", "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if a.TXT != base+".txt" || a.SRT != base+".srt" || a.VTT != base+".vtt" {
		t.Errorf("artifact paths = %+v, want %s.{txt,srt,vtt}", a, base)
	}
}
