// Package audio turns supported audio files into 16 kHz mono float32 samples.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
)

// SampleRate is the input rate expected by whisper models.
const SampleRate = 16000

// ErrUnsupportedFormat is returned when no decoder handles the file.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// pcm is interleaved float32 audio in [-1, 1].
type pcm struct {
	samples  []float32
	channels int
	rate     int
}

// nativeDecoder decodes one container format fully in-process.
type nativeDecoder func(r io.ReadSeeker) (pcm, error)

// Decoder decodes natively where a Go codec exists and falls back to ffmpeg.
type Decoder struct {
	ffmpegPath string
	runner     commandRunner
	mkdirTemp  func(dir, pattern string) (string, error)
	removeAll  func(path string) error
	native     map[string]nativeDecoder
}

// NewDecoder constructs the production decoder.
func NewDecoder() *Decoder {
	return &Decoder{
		ffmpegPath: "ffmpeg",
		runner:     &execRunner{},
		mkdirTemp:  os.MkdirTemp,
		removeAll:  os.RemoveAll,
		native: map[string]nativeDecoder{
			".wav": decodeWAV,
			".mp3": decodeMP3,
			".ogg": decodeOGG,
		},
	}
}

// Decode reads path and returns mono samples at SampleRate. Formats without
// a native codec (and native failures) go through ffmpeg; when both paths
// fail the returned error carries both causes.
func (d *Decoder) Decode(ctx context.Context, path string) ([]float32, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("audio path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot access audio file %s: %w", path, err)
	}

	var result *multierror.Error
	ext := strings.ToLower(filepath.Ext(path))
	if decode, ok := d.native[ext]; ok {
		samples, err := d.decodeNative(path, decode)
		if err == nil {
			logger.Debugf(ctx, "decoded %s natively: %d samples", path, len(samples))
			return samples, nil
		}
		logger.Warnf(ctx, "native %s decode failed, trying ffmpeg: %v", ext, err)
		result = multierror.Append(result, fmt.Errorf("native %s decoder: %w", ext, err))
	}

	samples, err := d.decodeWithFFmpeg(ctx, path)
	if err == nil {
		logger.Debugf(ctx, "decoded %s with ffmpeg: %d samples", path, len(samples))
		return samples, nil
	}
	result = multierror.Append(result, err)
	return nil, result.ErrorOrNil()
}

func (d *Decoder) decodeNative(path string, decode nativeDecoder) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := decode(file)
	if err != nil {
		return nil, err
	}
	return data.mono16k(), nil
}

// NewDecoderForTests constructs a decoder with injectable process and temp
// directory dependencies.
func NewDecoderForTests(
	ffmpegPath string,
	runner commandRunner,
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
) *Decoder {
	d := NewDecoder()
	d.ffmpegPath = ffmpegPath
	d.runner = runner
	d.mkdirTemp = mkdirTemp
	d.removeAll = removeAll
	return d
}
