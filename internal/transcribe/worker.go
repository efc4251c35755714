// Package transcribe turns one audio file into text with a loaded model.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"voice-to-text/internal/audio"
	"voice-to-text/internal/models"
	"voice-to-text/internal/textutil"
)

const (
	StageDecoding    = "decoding"
	StageRecognizing = "recognizing"
)

// Result is the text produced by one transcription.
type Result struct {
	Text     string        `json:"text"`
	Language string        `json:"language"`
	RTL      bool          `json:"rtl"`
	Audio    time.Duration `json:"audio"`
}

// Error is a stage-aware transcription failure.
type Error struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error formats failures for logs and UI.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// decoder abstracts audio decoding for testability.
type decoder interface {
	Decode(ctx context.Context, path string) ([]float32, error)
}

// Worker decodes audio and runs recognition. It holds no window state.
type Worker struct {
	decoder  decoder
	language string
}

// NewWorker creates a worker that decodes with dec and asks the model for
// language, where "auto" or empty means detection.
func NewWorker(dec decoder, language string) *Worker {
	return &Worker{decoder: dec, language: language}
}

// Transcribe runs inference over the audio at path using handle.
func (w *Worker) Transcribe(ctx context.Context, handle *models.Handle, path string) (Result, error) {
	if handle == nil || handle.Model == nil {
		return Result{}, &Error{Stage: StageRecognizing, Message: "no model loaded"}
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, &Error{Stage: StageDecoding, Message: "audio path is required"}
	}

	samples, err := w.decoder.Decode(ctx, path)
	if err != nil {
		return Result{}, &Error{Stage: StageDecoding, Message: "cannot decode audio file", Err: err}
	}
	if len(samples) == 0 {
		return Result{}, &Error{Stage: StageDecoding, Message: "audio file contains no samples"}
	}

	duration := time.Duration(len(samples)) * time.Second / audio.SampleRate
	logger.Infof(ctx, "transcribing %s (%s of audio) with %s model", path, duration.Truncate(time.Millisecond), handle.Size)

	started := time.Now()
	rec, err := handle.Model.Recognize(ctx, samples, languageOption(w.language))
	if err != nil {
		return Result{}, &Error{Stage: StageRecognizing, Message: "speech recognition failed", Err: err}
	}
	logger.Infof(ctx, "transcription finished in %s, language=%q", time.Since(started).Truncate(time.Millisecond), rec.Language)

	return postProcess(rec, duration), nil
}

// postProcess trims text and normalizes Persian output for right-to-left
// display.
func postProcess(rec models.Recognition, duration time.Duration) Result {
	result := Result{
		Text:     strings.TrimSpace(rec.Text),
		Language: rec.Language,
		Audio:    duration,
	}
	if result.Language == "" {
		result.Language = "unknown"
	}

	if textutil.IsPersianText(result.Text) || textutil.IsPersianLanguage(rec.Language) {
		result.Text = textutil.NormalizePersian(result.Text, true)
		result.RTL = true
	}
	return result
}

// languageOption maps "auto" and empty language to detection.
func languageOption(raw string) string {
	lang := strings.TrimSpace(raw)
	if strings.EqualFold(lang, "auto") {
		return ""
	}
	return lang
}
