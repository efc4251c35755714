package config

import (
	"os"
	"path/filepath"

	"voice-to-text/internal/domain"
)

// AppDirName is the per-user directory holding settings and model weights.
const AppDirName = ".voice-to-text"

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		ModelSize: domain.ModelLarge,
		ModelDir:  filepath.Join(homeDir, AppDirName, "models"),
		Language:  "auto",
	}
}

// SettingsPath returns the settings file location under homeDir.
func SettingsPath(homeDir string) string {
	return filepath.Join(homeDir, AppDirName, "settings.json")
}

// Normalize fills empty or invalid fields from defaults.
func Normalize(settings domain.Settings) domain.Settings {
	defaults := DefaultSettings()
	if !settings.ModelSize.Valid() {
		settings.ModelSize = defaults.ModelSize
	}
	if settings.ModelDir == "" {
		settings.ModelDir = defaults.ModelDir
	}
	if settings.Language == "" {
		settings.Language = defaults.Language
	}
	return settings
}
