// Package caption turns flat transcribed text into the three on-disk
// caption artifacts: plain text, SRT, and WebVTT.
package caption

import (
	"fmt"
	"os"
	"strings"
)

// placeholderRange is the zero-duration timestamp used for every SRT cue.
// API providers return no timing, and local timing is deliberately not
// threaded through; cue structure matters here, cue timing does not.
const placeholderRange = "00:00:00,000 --> 00:00:00,000"

// vttHeader is the fixed WebVTT format header.
const vttHeader = "WEBVTT"

// Artifacts are the three sibling output paths sharing a basename.
type Artifacts struct {
	TXT string
	SRT string
	VTT string
}

// Synthesize writes the three caption artifacts beside basePath
// (basePath + ".txt"/".srt"/".vtt"). Existing artifacts are overwritten;
// last write wins. The result is a pure function of (text, language).
func Synthesize(basePath, text, language string) (*Artifacts, error) {
	a := &Artifacts{
		TXT: basePath + ".txt",
		SRT: basePath + ".srt",
		VTT: basePath + ".vtt",
	}

	if err := os.WriteFile(a.TXT, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", a.TXT, err)
	}
	if err := os.WriteFile(a.SRT, []byte(renderSRT(text)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", a.SRT, err)
	}
	if err := os.WriteFile(a.VTT, []byte(renderVTT(text)), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", a.VTT, err)
	}
	return a, nil
}

// renderSRT turns each non-empty line into one numbered zero-duration cue.
func renderSRT(text string) string {
	var b strings.Builder
	n := 0
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d\n%s\n%s\n\n", n, placeholderRange, line)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderVTT prefixes the format header to the unmodified text.
func renderVTT(text string) string {
	return vttHeader + "\n\n" + text
}
