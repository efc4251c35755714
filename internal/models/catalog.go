package models

import (
	"os"
	"path/filepath"

	"voice-to-text/internal/domain"
)

const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

var whisperModelCatalog = []domain.WhisperModelOption{
	{
		Size:        domain.ModelTiny,
		Label:       "tiny (Fast)",
		FileName:    "ggml-tiny.bin",
		URL:         modelBaseURL + "ggml-tiny.bin",
		SizeLabel:   "~75 MB",
		Description: "Fastest multilingual model.",
	},
	{
		Size:        domain.ModelBase,
		Label:       "base (Balanced)",
		FileName:    "ggml-base.bin",
		URL:         modelBaseURL + "ggml-base.bin",
		SizeLabel:   "~142 MB",
		Description: "Balanced speed/quality, multilingual.",
	},
	{
		Size:        domain.ModelSmall,
		Label:       "small (Good)",
		FileName:    "ggml-small.bin",
		URL:         modelBaseURL + "ggml-small.bin",
		SizeLabel:   "~466 MB",
		Description: "Higher quality multilingual model.",
	},
	{
		Size:        domain.ModelMedium,
		Label:       "medium (Better)",
		FileName:    "ggml-medium.bin",
		URL:         modelBaseURL + "ggml-medium.bin",
		SizeLabel:   "~1.5 GB",
		Description: "High quality multilingual model.",
	},
	{
		Size:        domain.ModelLarge,
		Label:       "large (Best)",
		FileName:    "ggml-large-v3.bin",
		URL:         modelBaseURL + "ggml-large-v3.bin",
		SizeLabel:   "~2.9 GB",
		Description: "Best accuracy, slowest to load.",
	},
}

// Catalog returns a copy of the model presets with download state filled
// in from dir.
func Catalog(dir string) []domain.WhisperModelOption {
	models := make([]domain.WhisperModelOption, len(whisperModelCatalog))
	copy(models, whisperModelCatalog)
	markDownloadedModels(models, dir)
	return models
}

// CatalogEntry looks up the preset for size.
func CatalogEntry(size domain.ModelSize) (domain.WhisperModelOption, bool) {
	for _, model := range whisperModelCatalog {
		if model.Size == size {
			return model, true
		}
	}
	return domain.WhisperModelOption{}, false
}

func markDownloadedModels(models []domain.WhisperModelOption, dir string) {
	if dir == "" {
		return
	}
	for i := range models {
		candidate := filepath.Join(dir, models[i].FileName)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() || info.Size() == 0 {
			continue
		}
		models[i].Downloaded = true
		models[i].LocalPath = candidate
	}
}
