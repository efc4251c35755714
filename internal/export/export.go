// Package export copies or saves transcription text.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard backend is ready.
var ErrClipboardUnavailable = errors.New("clipboard is not available")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	SetText(text string) error
}

// Error reports a failed copy or save.
type Error struct {
	Op   string
	Path string
	Err  error
}

// Error formats export failures for logs and UI.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CopyText puts text on the clipboard.
func CopyText(cb Clipboard, text string) error {
	if cb == nil {
		return &Error{Op: "copy", Err: ErrClipboardUnavailable}
	}
	if err := cb.SetText(text); err != nil {
		return &Error{Op: "copy", Err: err}
	}
	return nil
}

// WriteText writes text to path as UTF-8 without a byte order mark,
// creating the parent directory when needed.
func WriteText(path string, text string) error {
	if strings.TrimSpace(path) == "" {
		return &Error{Op: "save", Err: errors.New("output path is required")}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Op: "save", Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &Error{Op: "save", Path: path, Err: err}
	}
	return nil
}

// EnsureTextExtension appends ".txt" when path has no extension.
func EnsureTextExtension(path string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + ".txt"
}
