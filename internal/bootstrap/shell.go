package bootstrap

import (
	"context"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var audioDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Audio files",
		Pattern:     "*.mp3;*.wav;*.m4a;*.flac;*.aac;*.ogg;*.wma",
	},
	{
		DisplayName: "MP3 files",
		Pattern:     "*.mp3",
	},
	{
		DisplayName: "WAV files",
		Pattern:     "*.wav",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

var textDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Text files",
		Pattern:     "*.txt",
	},
	{
		DisplayName: "All files",
		Pattern:     "*",
	},
}

// shell is the native window surface: dialogs, clipboard and push events.
type shell interface {
	OpenAudioFile() (string, error)
	SaveTextFile(defaultName string) (string, error)
	SetText(text string) error
	ShowError(title, message string)
	Emit(name string, data any)
}

// wailsShell forwards to the Wails runtime bound to the window context.
type wailsShell struct {
	ctx context.Context
}

func (s *wailsShell) OpenAudioFile() (string, error) {
	path, err := wailsruntime.OpenFileDialog(s.ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select Audio File",
		Filters: audioDialogFilter,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func (s *wailsShell) SaveTextFile(defaultName string) (string, error) {
	path, err := wailsruntime.SaveFileDialog(s.ctx, wailsruntime.SaveDialogOptions{
		Title:           "Save Transcription",
		DefaultFilename: defaultName,
		Filters:         textDialogFilter,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func (s *wailsShell) SetText(text string) error {
	return wailsruntime.ClipboardSetText(s.ctx, text)
}

func (s *wailsShell) ShowError(title, message string) {
	_, _ = wailsruntime.MessageDialog(s.ctx, wailsruntime.MessageDialogOptions{
		Type:    wailsruntime.ErrorDialog,
		Title:   title,
		Message: message,
	})
}

func (s *wailsShell) Emit(name string, data any) {
	wailsruntime.EventsEmit(s.ctx, name, data)
}
