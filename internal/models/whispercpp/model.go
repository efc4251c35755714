// Package whispercpp runs inference through the whisper.cpp Go bindings.
// It links libwhisper via cgo, so only the application entry points import it.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"voice-to-text/internal/models"
)

// Model adapts a whisper.cpp model to models.Model.
type Model struct {
	mu    sync.Mutex
	model whisper.Model
}

var _ models.Model = (*Model)(nil)

// Open loads ggml weights from path.
func Open(path string) (models.Model, error) {
	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("open whisper model %s: %w", path, err)
	}
	return &Model{model: model}, nil
}

// Recognize runs a fresh whisper context over samples and joins the
// decoded segments.
func (m *Model) Recognize(ctx context.Context, samples []float32, language string) (models.Recognition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wctx, err := m.model.NewContext()
	if err != nil {
		return models.Recognition{}, fmt.Errorf("create whisper context: %w", err)
	}

	lang := normalizeLanguage(language)
	if err := wctx.SetLanguage(lang); err != nil {
		logger.Warnf(ctx, "language %q rejected, falling back to auto: %v", lang, err)
		if err := wctx.SetLanguage("auto"); err != nil {
			return models.Recognition{}, fmt.Errorf("set language: %w", err)
		}
	}
	wctx.SetTranslate(false)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return models.Recognition{}, fmt.Errorf("whisper inference: %w", err)
	}

	var text strings.Builder
	segments := 0
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Recognition{}, fmt.Errorf("read segment %d: %w", segments, err)
		}
		segments++
		text.WriteString(segment.Text)
	}
	logger.Debugf(ctx, "whisper produced %d segments", segments)

	return models.Recognition{
		Text:     strings.TrimSpace(text.String()),
		Language: wctx.DetectedLanguage(),
	}, nil
}

// Close releases the whisper.cpp model.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Close()
}

// normalizeLanguage maps empty language to auto-detection.
func normalizeLanguage(raw string) string {
	lang := strings.TrimSpace(raw)
	if lang == "" {
		return "auto"
	}
	return strings.ToLower(lang)
}
