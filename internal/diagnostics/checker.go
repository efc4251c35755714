package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"voice-to-text/internal/domain"
)

// Diagnostic item ids accepted by the fix action.
const (
	ItemFFmpeg   = "tool_ffmpeg"
	ItemModelDir = "model_dir"
	ItemModels   = "models_cached"
)

// Checker validates external tools and the model weights directory.
type Checker struct {
	lookPath   func(string) (string, error)
	readDir    func(string) ([]os.DirEntry, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
	modelFiles []string
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker(modelFiles []string) *Checker {
	return &Checker{
		lookPath:   exec.LookPath,
		readDir:    os.ReadDir,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
		modelFiles: modelFiles,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkFFmpeg(),
		c.checkModelDir(settings.ModelDir),
		c.checkCachedModels(settings.ModelDir),
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: lo.ContainsBy(items, func(item domain.DiagnosticItem) bool {
			return item.Status == domain.DiagnosticStatusFail
		}),
		Items: items,
	}
}

// checkFFmpeg looks for the converter used by formats without a native decoder.
func (c *Checker) checkFFmpeg() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   ItemFFmpeg,
		Name: "ffmpeg",
	}

	path, err := c.lookPath("ffmpeg")
	if err != nil {
		item.Status = domain.DiagnosticStatusWarn
		item.Message = "ffmpeg not found in PATH. MP3, WAV and OGG still work."
		item.Hint = "Install ffmpeg to convert M4A, AAC, FLAC and WMA files."
		item.Fixable = true
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found at %s", path)
	return item
}

// checkModelDir validates model directory existence and write access.
func (c *Checker) checkModelDir(modelDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   ItemModelDir,
		Name: "Model directory",
	}

	if strings.TrimSpace(modelDir) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Model directory is empty."
		item.Hint = "Set a directory where downloaded models can be stored."
		return item
	}

	if err := c.mkdirAll(modelDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create model directory: %s", modelDir)
		item.Hint = "Adjust filesystem permissions, then run the fix again."
		item.Fixable = true
		return item
	}

	tmpFile, err := c.createTemp(modelDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Model directory is not writable: %s", modelDir)
		item.Hint = "Models are downloaded here on first use; make it writable."
		item.Fixable = true
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", modelDir)
	return item
}

// checkCachedModels reports which model files are already downloaded.
func (c *Checker) checkCachedModels(modelDir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   ItemModels,
		Name: "Downloaded models",
	}

	entries, err := c.readDir(modelDir)
	if err != nil {
		entries = nil
	}

	found := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() {
			return "", false
		}
		name := entry.Name()
		return name, lo.Contains(c.modelFiles, name)
	})

	if len(found) == 0 {
		item.Status = domain.DiagnosticStatusWarn
		item.Message = "No models downloaded yet."
		item.Hint = "The selected model is downloaded on the first conversion; this needs network access."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Found %s in %s", strings.Join(found, ", "), filepath.Clean(modelDir))
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	modelFiles []string,
	lookPath func(string) (string, error),
	readDir func(string) ([]os.DirEntry, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		lookPath:   lookPath,
		readDir:    readDir,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
		modelFiles: modelFiles,
	}
}
