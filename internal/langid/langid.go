// Package langid is a coarse two-way language classifier used when a
// transcription backend cannot report a language itself. It is a
// character-frequency ratio test, not general language identification,
// and is intentionally approximate.
package langid

import "unicode"

// Language tags returned by Detect.
const (
	Hebrew  = "he"
	English = "en"
	Unknown = "unknown"
)

// hebrewRatioThreshold is the fraction of word-characters that must fall
// in the Hebrew block for the text to be classified as Hebrew.
const hebrewRatioThreshold = 0.3

// Detect classifies text as Hebrew or English by the ratio of Hebrew
// codepoints (U+0590..U+05FF) to total word-characters. Text with no
// word-characters is reported as Unknown.
func Detect(text string) string {
	var hebrew, total int
	for _, r := range text {
		if r >= 0x0590 && r <= 0x05FF {
			hebrew++
			total++
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			total++
		}
	}
	if total == 0 {
		return Unknown
	}
	if float64(hebrew)/float64(total) > hebrewRatioThreshold {
		return Hebrew
	}
	return English
}
