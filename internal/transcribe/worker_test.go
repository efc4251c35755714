package transcribe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-to-text/internal/domain"
	"voice-to-text/internal/models"
)

// fakeDecoder returns fixed samples or an error.
type fakeDecoder struct {
	samples []float32
	err     error
	path    string
}

// Decode records the path and returns the configured outcome.
func (d *fakeDecoder) Decode(_ context.Context, path string) ([]float32, error) {
	d.path = path
	return d.samples, d.err
}

// fakeModel returns a fixed recognition.
type fakeModel struct {
	rec      models.Recognition
	err      error
	language string
	samples  int
}

func (m *fakeModel) Recognize(_ context.Context, samples []float32, language string) (models.Recognition, error) {
	m.language = language
	m.samples = len(samples)
	return m.rec, m.err
}

func (m *fakeModel) Close() error { return nil }

func handleFor(m models.Model) *models.Handle {
	return &models.Handle{Size: domain.ModelBase, Path: "/models/ggml-base.bin", Model: m}
}

// TestTranscribeSuccessAutoLanguage checks trimmed text and the detected language.
func TestTranscribeSuccessAutoLanguage(t *testing.T) {
	dec := &fakeDecoder{samples: make([]float32, 32000)}
	model := &fakeModel{rec: models.Recognition{Text: "  hello world \n", Language: "en"}}

	res, err := NewWorker(dec, "auto").Transcribe(context.Background(), handleFor(model), "/audio/a.mp3")
	require.NoError(t, err)

	assert.Equal(t, "/audio/a.mp3", dec.path)
	assert.Equal(t, "", model.language, "auto must request detection")
	assert.Equal(t, 32000, model.samples)
	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, "en", res.Language)
	assert.False(t, res.RTL)
	assert.EqualValues(t, 2e9, res.Audio)
}

// TestTranscribePassesExplicitLanguage checks a fixed language reaches the model.
func TestTranscribePassesExplicitLanguage(t *testing.T) {
	model := &fakeModel{rec: models.Recognition{Text: "hallo"}}
	res, err := NewWorker(&fakeDecoder{samples: []float32{0.1}}, "de").Transcribe(context.Background(), handleFor(model), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "de", model.language)
	assert.Equal(t, "unknown", res.Language)
}

// TestTranscribeNormalizesPersian checks Persian output is normalized and flagged RTL.
func TestTranscribeNormalizesPersian(t *testing.T) {
	model := &fakeModel{rec: models.Recognition{Text: "سال 1402 ،خوب", Language: "fa"}}
	res, err := NewWorker(&fakeDecoder{samples: []float32{0.1}}, "auto").Transcribe(context.Background(), handleFor(model), "a.wav")
	require.NoError(t, err)
	assert.True(t, res.RTL)
	assert.Equal(t, "سال ۱۴۰۲، خوب", res.Text)
}

// TestTranscribeKeepsEmptyText checks silence yields an empty transcript, not an error.
func TestTranscribeKeepsEmptyText(t *testing.T) {
	model := &fakeModel{rec: models.Recognition{Text: "   ", Language: "en"}}
	res, err := NewWorker(&fakeDecoder{samples: []float32{0}}, "auto").Transcribe(context.Background(), handleFor(model), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
}

// TestTranscribeDecodeFailure checks decoder errors are reported at the decoding stage.
func TestTranscribeDecodeFailure(t *testing.T) {
	cause := errors.New("ffmpeg: audio conversion failed")
	model := &fakeModel{}
	_, err := NewWorker(&fakeDecoder{err: cause}, "auto").Transcribe(context.Background(), handleFor(model), "a.wma")

	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, StageDecoding, tErr.Stage)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, model.samples, "model must not run on decode failure")
}

// TestTranscribeEmptyAudio checks zero samples fail before inference.
func TestTranscribeEmptyAudio(t *testing.T) {
	_, err := NewWorker(&fakeDecoder{}, "auto").Transcribe(context.Background(), handleFor(&fakeModel{}), "silence.wav")

	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, StageDecoding, tErr.Stage)
	assert.Contains(t, tErr.Message, "no samples")
}

// TestTranscribeInferenceFailure checks model errors are reported at the recognizing stage.
func TestTranscribeInferenceFailure(t *testing.T) {
	model := &fakeModel{err: errors.New("ggml alloc failed")}
	_, err := NewWorker(&fakeDecoder{samples: []float32{0.2}}, "auto").Transcribe(context.Background(), handleFor(model), "a.wav")

	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, StageRecognizing, tErr.Stage)
}

// TestTranscribeRequiresHandle checks a nil handle is rejected.
func TestTranscribeRequiresHandle(t *testing.T) {
	_, err := NewWorker(&fakeDecoder{}, "auto").Transcribe(context.Background(), nil, "a.wav")
	require.Error(t, err)
}
