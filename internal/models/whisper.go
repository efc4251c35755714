package models

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"voice-to-text/internal/domain"
)

// WhisperLoader downloads ggml weights on first use and opens them.
type WhisperLoader struct {
	dir      string
	download func(ctx context.Context, destinationPath, sourceURL string) error
	open     OpenFunc
	remove   func(path string) error
}

// OpenFunc opens model weights from a local file.
type OpenFunc func(path string) (Model, error)

// NewWhisperLoader stores model weights under dir and opens them with open.
func NewWhisperLoader(dir string, open OpenFunc) *WhisperLoader {
	return &WhisperLoader{
		dir: dir,
		download: func(ctx context.Context, destinationPath, sourceURL string) error {
			return downloadURLToFile(ctx, destinationPath, sourceURL, modelDownloadTimeout)
		},
		open:   open,
		remove: os.Remove,
	}
}

// Dir returns the model weights directory.
func (l *WhisperLoader) Dir() string {
	return l.dir
}

// Load makes size available, downloading its weights when missing. Weights
// that fail to open are removed so the next attempt downloads them again.
func (l *WhisperLoader) Load(ctx context.Context, size domain.ModelSize) (*Handle, error) {
	option, ok := CatalogEntry(size)
	if !ok {
		return nil, &LoadError{Size: size, Message: "invalid model size"}
	}
	if strings.TrimSpace(l.dir) == "" {
		return nil, &LoadError{Size: size, Message: "model directory is not configured"}
	}

	path := filepath.Join(l.dir, option.FileName)
	info, err := os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Size: size, Message: "cannot access model file " + path, Err: err}
	}
	if err != nil || info.Size() == 0 {
		logger.Infof(ctx, "downloading %s (%s) to %s", option.FileName, option.SizeLabel, path)
		started := time.Now()
		if err := l.download(ctx, path, option.URL); err != nil {
			return nil, &LoadError{Size: size, Message: "download failed (check network connection and free disk space)", Err: err}
		}
		logger.Infof(ctx, "downloaded %s in %s", option.FileName, time.Since(started).Truncate(time.Second))
	}

	model, err := l.open(path)
	if err != nil {
		if rmErr := l.remove(path); rmErr != nil {
			logger.Warnf(ctx, "remove unreadable model %s: %v", path, rmErr)
		}
		return nil, &LoadError{Size: size, Message: "model file is corrupted", Err: err}
	}

	return &Handle{Size: size, Path: path, Model: model}, nil
}

// NewWhisperLoaderForTests constructs a loader with injectable download and
// open steps.
func NewWhisperLoaderForTests(
	dir string,
	download func(ctx context.Context, destinationPath, sourceURL string) error,
	open OpenFunc,
) *WhisperLoader {
	return &WhisperLoader{
		dir:      dir,
		download: download,
		open:     open,
		remove:   os.Remove,
	}
}
