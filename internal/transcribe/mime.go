package transcribe

import (
	"path/filepath"
	"strings"
)

// mimeTypes maps audio file extensions to their content types.
var mimeTypes = map[string]string{
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
}

// MIMEForPath returns the audio content type for a file path based on its
// extension. Unrecognized extensions default to audio/wav.
func MIMEForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "audio/wav"
}

// FormatForPath returns the short audio format name ("wav", "mp3", ...)
// used by chat-completion audio parts. Defaults to "wav".
func FormatForPath(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := mimeTypes["."+ext]; ok {
		return ext
	}
	return "wav"
}
