// Package models acquires whisper models by size and keeps them loaded for
// the lifetime of the process.
package models

import (
	"context"
	"fmt"
	"sync"

	"github.com/facebookincubator/go-belt/tool/logger"
	lru "github.com/hashicorp/golang-lru/v2"

	"voice-to-text/internal/domain"
)

// Recognition is the raw output of one inference run.
type Recognition struct {
	Text     string
	Language string
}

// Model is a loaded speech recognition model.
type Model interface {
	// Recognize runs inference over 16 kHz mono samples. An empty or "auto"
	// language asks the model to detect it.
	Recognize(ctx context.Context, samples []float32, language string) (Recognition, error)
	Close() error
}

// Handle is a loaded model tagged with its size.
type Handle struct {
	Size  domain.ModelSize
	Path  string
	Model Model
}

// Loader performs the slow load of one model size.
type Loader interface {
	Load(ctx context.Context, size domain.ModelSize) (*Handle, error)
}

// LoadError reports why a model size could not be made available.
type LoadError struct {
	Size    domain.ModelSize
	Message string
	Err     error
}

// Error formats load failures for logs and UI.
func (e *LoadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("load model %s: %s", e.Size, e.Message)
	}
	return fmt.Sprintf("load model %s: %s: %v", e.Size, e.Message, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Manager caches one handle per size. The cache holds every size, so
// nothing is ever evicted.
type Manager struct {
	loadMu sync.Mutex
	loader Loader
	cache  *lru.Cache[domain.ModelSize, *Handle]
}

// NewManager creates an empty manager backed by loader.
func NewManager(loader Loader) *Manager {
	cache, err := lru.New[domain.ModelSize, *Handle](len(domain.ModelSizes))
	if err != nil {
		panic(err)
	}
	return &Manager{
		loader: loader,
		cache:  cache,
	}
}

// GetOrLoad returns the cached handle for size or loads it, blocking until
// the load completes. The handle is published only after a successful load.
func (m *Manager) GetOrLoad(ctx context.Context, size domain.ModelSize) (*Handle, error) {
	if !size.Valid() {
		return nil, &LoadError{Size: size, Message: "invalid model size"}
	}

	if handle, ok := m.cache.Get(size); ok {
		return handle, nil
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	if handle, ok := m.cache.Get(size); ok {
		return handle, nil
	}

	logger.Infof(ctx, "loading whisper %s model", size)
	handle, err := m.loader.Load(ctx, size)
	if err != nil {
		return nil, err
	}
	if handle == nil || handle.Model == nil {
		return nil, &LoadError{Size: size, Message: "loader returned no model"}
	}

	m.cache.Add(size, handle)
	logger.Infof(ctx, "whisper %s model ready (%s)", size, handle.Path)
	return handle, nil
}

// Loaded reports whether size is already in memory.
func (m *Manager) Loaded(size domain.ModelSize) bool {
	return m.cache.Contains(size)
}
