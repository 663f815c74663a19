package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"
)

// LocalClient transcribes audio on-device through the whisper.cpp Go
// bindings. The model is loaded lazily on first use and reused for the
// lifetime of the client; callers must call Close when done.
// Implements the Provider interface.
type LocalClient struct {
	model    string // size name ("small") or explicit .bin path
	modelDir string
	log      zerolog.Logger

	loadOnce sync.Once
	loadErr  error
	whisper  whisperlib.Model
}

// NewLocalClient creates a local whisper client. model is a whisper size
// name (tiny, base, small, medium, large-v3) resolved against modelDir,
// or a direct path to a ggml model file.
func NewLocalClient(model, modelDir string, log zerolog.Logger) *LocalClient {
	if model == "" {
		model = "small"
	}
	return &LocalClient{model: model, modelDir: modelDir, log: log}
}

// Name returns the provider name.
func (lc *LocalClient) Name() string { return "local" }

// Model returns the configured model identifier.
func (lc *LocalClient) Model() string { return lc.model }

// modelPath resolves the configured model to a ggml file path.
func (lc *LocalClient) modelPath() string {
	if strings.ContainsRune(lc.model, os.PathSeparator) || strings.HasSuffix(lc.model, ".bin") {
		return lc.model
	}
	dir := lc.modelDir
	if dir == "" {
		dir = "models"
	}
	return filepath.Join(dir, "ggml-"+lc.model+".bin")
}

// load loads the whisper model exactly once per client.
func (lc *LocalClient) load() error {
	lc.loadOnce.Do(func() {
		path := lc.modelPath()
		lc.log.Info().Str("model", lc.model).Str("path", path).Msg("loading whisper model")
		m, err := whisperlib.New(path)
		if err != nil {
			lc.loadErr = fmt.Errorf("load model %q: %w", path, err)
			return
		}
		lc.whisper = m
	})
	return lc.loadErr
}

// Close releases the loaded whisper model, if any.
func (lc *LocalClient) Close() error {
	if lc.whisper != nil {
		return lc.whisper.Close()
	}
	return nil
}

// Transcribe runs whisper inference on the decoded audio and returns the
// text with real per-segment timing and the backend-detected language.
func (lc *LocalClient) Transcribe(ctx context.Context, audioPath string, opts Opts) (*Result, error) {
	if err := lc.load(); err != nil {
		return nil, err
	}

	samples, err := decodeWAV(audioPath)
	if err != nil {
		return nil, err
	}

	// Each whisper context is single-use; the model itself is shared.
	wctx, err := lc.whisper.NewContext()
	if err != nil {
		return nil, fmt.Errorf("create whisper context: %w", err)
	}

	lang := opts.Language
	if lang == "" {
		lang = LanguageAuto
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("set language %q: %w", lang, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper inference: %w", err)
	}

	var (
		segments []Segment
		lines    []string
	)
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segment: %w", err)
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Start: seg.Start, End: seg.End, Text: text})
		lines = append(lines, text)
		lc.log.Info().
			Str("start", seg.Start.String()).
			Str("text", text).
			Msg("segment")
	}

	detected := wctx.DetectedLanguage()
	if detected == "" {
		detected = LanguageAuto
	}
	lc.log.Info().Str("language", detected).Msg("detected language")

	return &Result{
		Text:     strings.Join(lines, "\n"),
		Language: detected,
		Segments: segments,
	}, nil
}

// decodeWAV reads a 16 kHz mono PCM WAV file into float32 samples for
// whisper. Resampling and channel mixing are out of scope; other rates
// or channel counts are rejected.
func decodeWAV(path string) ([]float32, error) {
	if strings.ToLower(filepath.Ext(path)) != ".wav" {
		return nil, fmt.Errorf("local provider requires a wav file, got %s", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if int(dec.SampleRate) != whisperlib.SampleRate {
		return nil, fmt.Errorf("unsupported sample rate %d, want %d", dec.SampleRate, whisperlib.SampleRate)
	}
	if dec.NumChans != 1 {
		return nil, fmt.Errorf("unsupported channel count %d, want mono", dec.NumChans)
	}
	return buf.AsFloat32Buffer().Data, nil
}
