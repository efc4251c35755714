package models

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-to-text/internal/domain"
)

// TestWhisperLoaderDownloadsMissingWeights checks absent weights are fetched into the model dir.
func TestWhisperLoaderDownloadsMissingWeights(t *testing.T) {
	dir := t.TempDir()
	var downloadedURL string
	loader := NewWhisperLoaderForTests(dir,
		func(_ context.Context, dest, url string) error {
			downloadedURL = url
			return os.WriteFile(dest, []byte("weights"), 0o644)
		},
		func(string) (Model, error) { return stubModel{}, nil },
	)

	h, err := loader.Load(context.Background(), domain.ModelSmall)
	require.NoError(t, err)

	assert.Equal(t, modelBaseURL+"ggml-small.bin", downloadedURL)
	assert.Equal(t, filepath.Join(dir, "ggml-small.bin"), h.Path)
	assert.Equal(t, domain.ModelSmall, h.Size)
}

// TestWhisperLoaderReusesExistingWeights checks weights on disk are not downloaded again.
func TestWhisperLoaderReusesExistingWeights(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-tiny.bin"), []byte("weights"), 0o644))

	loader := NewWhisperLoaderForTests(dir,
		func(context.Context, string, string) error {
			assert.Fail(t, "download should not be called")
			return nil
		},
		func(string) (Model, error) { return stubModel{}, nil },
	)

	_, err := loader.Load(context.Background(), domain.ModelTiny)
	require.NoError(t, err)
}

// TestWhisperLoaderDownloadFailure checks download errors become load errors.
func TestWhisperLoaderDownloadFailure(t *testing.T) {
	loader := NewWhisperLoaderForTests(t.TempDir(),
		func(context.Context, string, string) error { return errors.New("no route to host") },
		func(string) (Model, error) { return stubModel{}, nil },
	)

	_, err := loader.Load(context.Background(), domain.ModelBase)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, domain.ModelBase, loadErr.Size)
	assert.Contains(t, err.Error(), "no route to host")
}

// TestWhisperLoaderRemovesCorruptWeights checks weights that fail to open are deleted.
func TestWhisperLoaderRemovesCorruptWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ggml-medium.bin")
	require.NoError(t, os.WriteFile(path, []byte("truncated"), 0o644))

	loader := NewWhisperLoaderForTests(dir,
		func(context.Context, string, string) error { return nil },
		func(string) (Model, error) { return nil, errors.New("invalid model magic") },
	)

	_, err := loader.Load(context.Background(), domain.ModelMedium)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

// TestWhisperLoaderRequiresDirectory rejects an empty model dir.
func TestWhisperLoaderRequiresDirectory(t *testing.T) {
	loader := NewWhisperLoaderForTests("", nil, nil)
	_, err := loader.Load(context.Background(), domain.ModelTiny)
	require.Error(t, err)
}
