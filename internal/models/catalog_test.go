package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-to-text/internal/domain"
)

// TestCatalogCoversEverySize verifies each size has a downloadable preset.
func TestCatalogCoversEverySize(t *testing.T) {
	for _, size := range domain.ModelSizes {
		entry, ok := CatalogEntry(size)
		require.True(t, ok, size)
		assert.NotEmpty(t, entry.FileName)
		assert.Contains(t, entry.URL, entry.FileName)

		parsed, err := domain.ParseModelSize(entry.Label)
		require.NoError(t, err)
		assert.Equal(t, size, parsed)
	}

	_, ok := CatalogEntry("huge")
	assert.False(t, ok)
}

// TestCatalogMarksDownloadedModels marks presets whose file exists.
func TestCatalogMarksDownloadedModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-tiny.bin"), nil, 0o644))

	models := Catalog(dir)
	for _, m := range models {
		switch m.Size {
		case domain.ModelBase:
			assert.True(t, m.Downloaded)
			assert.Equal(t, path, m.LocalPath)
		default:
			assert.False(t, m.Downloaded, m.Size)
		}
	}

	assert.False(t, whisperModelCatalog[1].Downloaded, "catalog must not be mutated")
}

// TestDownloadURLToFile writes the body atomically.
func TestDownloadURLToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ggml weights"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "ggml-tiny.bin")
	require.NoError(t, downloadURLToFile(context.Background(), dest, srv.URL, time.Minute))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ggml weights", string(data))
	_, err = os.Stat(dest + ".download")
	assert.True(t, os.IsNotExist(err))
}

// TestDownloadURLToFileHTTPError leaves no file behind on failure.
func TestDownloadURLToFileHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "ggml-tiny.bin")
	require.Error(t, downloadURLToFile(context.Background(), dest, srv.URL, time.Minute))
	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}
