package diagnostics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-to-text/internal/domain"
)

var testModelFiles = []string{"ggml-tiny.bin", "ggml-base.bin"}

// TestCheckerRunAllPass validates happy-path diagnostics report.
func TestCheckerRunAllPass(t *testing.T) {
	modelDir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.MkdirAll(modelDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "ggml-base.bin"), []byte("stub"), 0o644))

	checker := NewCheckerForTests(
		testModelFiles,
		func(name string) (string, error) { return "/usr/local/bin/" + name, nil },
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{ModelDir: modelDir, Language: "auto"})

	require.False(t, report.HasFailures, "%+v", report.Items)
	assertStatusByID(t, report, ItemFFmpeg, domain.DiagnosticStatusPass)
	assertStatusByID(t, report, ItemModelDir, domain.DiagnosticStatusPass)
	assertStatusByID(t, report, ItemModels, domain.DiagnosticStatusPass)
}

// TestCheckerRunMissingFFmpegWarns validates ffmpeg is optional.
func TestCheckerRunMissingFFmpegWarns(t *testing.T) {
	checker := NewCheckerForTests(
		testModelFiles,
		func(string) (string, error) { return "", errors.New("not found") },
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{ModelDir: filepath.Join(t.TempDir(), "models")})

	require.False(t, report.HasFailures, "missing ffmpeg should only warn: %+v", report.Items)
	assertStatusByID(t, report, ItemFFmpeg, domain.DiagnosticStatusWarn)
	assertStatusByID(t, report, ItemModels, domain.DiagnosticStatusWarn)
	for _, item := range report.Items {
		if item.ID == ItemFFmpeg {
			assert.True(t, item.Fixable, "ffmpeg item should be fixable")
		}
	}
}

// TestCheckerRunUnwritableModelDirFails validates model dir failure.
func TestCheckerRunUnwritableModelDirFails(t *testing.T) {
	checker := NewCheckerForTests(
		testModelFiles,
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		os.ReadDir,
		func(string, os.FileMode) error { return errors.New("permission denied") },
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{ModelDir: "/root-owned/models"})

	assert.True(t, report.HasFailures)
	assertStatusByID(t, report, ItemModelDir, domain.DiagnosticStatusFail)
}

// TestCheckerRunEmptyModelDirFails validates missing configuration.
func TestCheckerRunEmptyModelDirFails(t *testing.T) {
	checker := NewCheckerForTests(
		testModelFiles,
		func(name string) (string, error) { return "/usr/bin/" + name, nil },
		os.ReadDir,
		os.MkdirAll,
		os.CreateTemp,
		os.Remove,
	)

	report := checker.Run(domain.Settings{})
	assertStatusByID(t, report, ItemModelDir, domain.DiagnosticStatusFail)
}

// assertStatusByID checks status for one diagnostic item by ID.
func assertStatusByID(t *testing.T, report domain.DiagnosticReport, id string, want domain.DiagnosticStatus) {
	t.Helper()
	for _, item := range report.Items {
		if item.ID == id {
			assert.Equal(t, want, item.Status, id)
			return
		}
	}
	require.FailNowf(t, "diagnostic item not found", "%s", id)
}
