package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandLog captures one external command invocation result.
type CommandLog struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exitCode"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// FFmpegError reports a failed ffmpeg conversion with its command output.
type FFmpegError struct {
	Message    string
	CommandLog CommandLog
	Err        error
}

// Error formats the failure with the exit code and the stderr tail.
func (e *FFmpegError) Error() string {
	if e == nil {
		return ""
	}
	if e.CommandLog.Command == "" {
		return "ffmpeg: " + e.Message
	}
	return fmt.Sprintf("ffmpeg: %s (exit=%d) %s", e.Message, e.CommandLog.ExitCode, tail(e.CommandLog.Stderr, 300))
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *FFmpegError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout/stderr and exit code.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}

	return result, nil
}

// decodeWithFFmpeg converts path to 16 kHz mono PCM WAV in a temporary
// workspace and reads it back with the native WAV decoder.
func (d *Decoder) decodeWithFFmpeg(ctx context.Context, path string) ([]float32, error) {
	tempDir, err := d.mkdirTemp("", "voice-to-text-*")
	if err != nil {
		return nil, &FFmpegError{Message: "failed to create temporary workspace", Err: err}
	}
	defer func() { _ = d.removeAll(tempDir) }()

	outPath := filepath.Join(tempDir, "decoded-16k-mono.wav")
	args := buildFFmpegArgs(path, outPath)
	res, runErr := d.runner.Run(ctx, d.ffmpegPath, args...)
	log := CommandLog{
		Command:  d.ffmpegPath,
		Args:     args,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
	if runErr != nil {
		return nil, &FFmpegError{Message: "audio conversion failed", CommandLog: log, Err: runErr}
	}

	file, err := os.Open(outPath)
	if err != nil {
		return nil, &FFmpegError{Message: "ffmpeg completed but output file is missing", CommandLog: log, Err: err}
	}
	defer file.Close()

	data, err := decodeWAV(file)
	if err != nil {
		return nil, &FFmpegError{Message: "cannot read converted audio", CommandLog: log, Err: err}
	}
	return data.mono16k(), nil
}

// buildFFmpegArgs builds CLI args for mono 16k PCM WAV output.
func buildFFmpegArgs(inputPath, outPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprint(SampleRate),
		"-c:a", "pcm_s16le",
		outPath,
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
