package domain

import (
	"fmt"
	"strings"
)

// ModelSize is one of the fixed whisper model sizes.
type ModelSize string

const (
	ModelTiny   ModelSize = "tiny"
	ModelBase   ModelSize = "base"
	ModelSmall  ModelSize = "small"
	ModelMedium ModelSize = "medium"
	ModelLarge  ModelSize = "large"
)

// ModelSizes lists every size in ascending order.
var ModelSizes = []ModelSize{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLarge}

// Valid reports whether s is a known size.
func (s ModelSize) Valid() bool {
	for _, size := range ModelSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ParseModelSize accepts a bare size tag or a display label like "small (Good)".
func ParseModelSize(raw string) (ModelSize, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", fmt.Errorf("model size is required")
	}

	size := ModelSize(strings.ToLower(fields[0]))
	if !size.Valid() {
		return "", fmt.Errorf("unknown model size: %s", raw)
	}
	return size, nil
}

// WhisperModelOption describes one downloadable whisper.cpp model preset.
type WhisperModelOption struct {
	Size        ModelSize `json:"size"`
	Label       string    `json:"label"`
	FileName    string    `json:"fileName"`
	URL         string    `json:"url"`
	SizeLabel   string    `json:"sizeLabel,omitempty"`
	Description string    `json:"description,omitempty"`
	Downloaded  bool      `json:"downloaded"`
	Loaded      bool      `json:"loaded"`
	LocalPath   string    `json:"localPath,omitempty"`
}
