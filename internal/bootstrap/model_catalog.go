package bootstrap

import (
	"voice-to-text/internal/domain"
	"voice-to-text/internal/models"
)

// ModelSizes returns the selectable model sizes with download and load state.
func (a *App) ModelSizes() []domain.WhisperModelOption {
	settings := a.currentSettings()
	options := models.Catalog(settings.ModelDir)
	if a.Models == nil {
		return options
	}
	for i := range options {
		options[i].Loaded = a.Models.Loaded(options[i].Size)
	}
	return options
}
