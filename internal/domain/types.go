package domain

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// UIState drives which window controls are enabled.
type UIState string

const (
	UIStateIdle         UIState = "idle"
	UIStateLoadingModel UIState = "loading-model"
	UIStateTranscribing UIState = "transcribing"
	UIStateError        UIState = "error"
)

// Busy reports whether a conversion is in flight.
func (s UIState) Busy() bool {
	return s == UIStateLoadingModel || s == UIStateTranscribing
}

// FailureKind classifies user-visible failures.
type FailureKind string

const (
	FailureSelection     FailureKind = "selection"
	FailureLoad          FailureKind = "load"
	FailureTranscription FailureKind = "transcription"
	FailureExport        FailureKind = "export"
)

// SupportedAudioExtensions is the allow-list for selectable audio files.
var SupportedAudioExtensions = []string{".mp3", ".wav", ".m4a", ".flac", ".aac", ".ogg", ".wma"}

// IsSupportedAudio reports whether path carries an allowed audio extension.
func IsSupportedAudio(path string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	return ext != "" && lo.Contains(SupportedAudioExtensions, ext)
}

// Settings contains user-selectable runtime configuration.
type Settings struct {
	ModelSize ModelSize `json:"modelSize"`
	ModelDir  string    `json:"modelDir"`
	Language  string    `json:"language"`
}

// Job stores the current conversion identity and UI state.
type Job struct {
	ID    string  `json:"id"`
	State UIState `json:"state"`
}

// WindowView is the snapshot of window state rendered by the frontend.
type WindowView struct {
	State          UIState     `json:"state"`
	Busy           bool        `json:"busy"`
	SelectedFile   string      `json:"selectedFile"`
	SelectedName   string      `json:"selectedName"`
	ModelSize      ModelSize   `json:"modelSize"`
	Status         string      `json:"status"`
	Output         string      `json:"output"`
	Language       string      `json:"language,omitempty"`
	RTL            bool        `json:"rtl"`
	ErrorKind      FailureKind `json:"errorKind,omitempty"`
	ErrorMessage   string      `json:"errorMessage,omitempty"`
	CanSelect      bool        `json:"canSelect"`
	CanConvert     bool        `json:"canConvert"`
	CanChangeModel bool        `json:"canChangeModel"`
	CanExport      bool        `json:"canExport"`
}
