package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"voice-to-text/internal/diagnostics"
	"voice-to-text/internal/domain"
)

const installCommandTimeout = 45 * time.Minute

type installOption struct {
	manager  string
	commands [][]string
}

// InstallOrFixDiagnostic applies an OS-specific remediation for one diagnostic item.
func (a *App) InstallOrFixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic item id is required")
	}

	settings := a.currentSettings()
	if a.modelDir != "" {
		settings.ModelDir = a.modelDir
	}
	var fixErr error

	switch id {
	case diagnostics.ItemFFmpeg:
		fixErr = a.installFFmpeg()
	case diagnostics.ItemModelDir:
		fixErr = createModelDir(settings.ModelDir)
	default:
		return domain.DiagnosticReport{}, fmt.Errorf("unsupported diagnostic item id: %s", id)
	}

	report := a.refreshDiagnosticsFromSettings(settings)
	if fixErr != nil {
		logger.Warnf(a.ctx, "fix %s: %v", id, fixErr)
		return report, fixErr
	}
	logger.Infof(a.ctx, "fixed diagnostic %s", id)
	return report, nil
}

// refreshDiagnosticsFromSettings reruns checks. The model directory is
// fixed for the process lifetime because the loader reads it at startup.
func (a *App) refreshDiagnosticsFromSettings(settings domain.Settings) domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.modelDir != "" {
		settings.ModelDir = a.modelDir
	}
	a.Settings = settings
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(settings)
	}
	return a.Diagnostics
}

func (a *App) installFFmpeg() error {
	options := ffmpegInstallOptions(goruntime.GOOS)
	if err := runFirstSuccessfulInstall(a.ctx, options); err != nil {
		return fmt.Errorf("install ffmpeg: %w", err)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("verify ffmpeg on PATH: %w", err)
	}
	return nil
}

func ffmpegInstallOptions(goos string) []installOption {
	switch goos {
	case "windows":
		return []installOption{
			{manager: "winget", commands: [][]string{
				{"winget", "install", "--id", "Gyan.FFmpeg", "--exact", "--accept-source-agreements", "--accept-package-agreements"},
			}},
			{manager: "choco", commands: [][]string{{"choco", "install", "ffmpeg", "-y"}}},
			{manager: "scoop", commands: [][]string{{"scoop", "install", "ffmpeg"}}},
		}
	case "darwin":
		return []installOption{
			{manager: "brew", commands: [][]string{{"brew", "install", "ffmpeg"}}},
		}
	default:
		return []installOption{
			{manager: "apt-get", commands: [][]string{
				{"apt-get", "update"},
				{"apt-get", "install", "-y", "ffmpeg"},
			}},
			{manager: "dnf", commands: [][]string{{"dnf", "install", "-y", "ffmpeg"}}},
			{manager: "pacman", commands: [][]string{{"pacman", "-Sy", "--noconfirm", "ffmpeg"}}},
			{manager: "zypper", commands: [][]string{{"zypper", "install", "-y", "ffmpeg"}}},
			{manager: "brew", commands: [][]string{{"brew", "install", "ffmpeg"}}},
		}
	}
}

func runFirstSuccessfulInstall(ctx context.Context, options []installOption) error {
	if len(options) == 0 {
		return fmt.Errorf("no install commands configured for OS %s", goruntime.GOOS)
	}

	var result *multierror.Error
	for _, option := range options {
		if !commandAvailable(option.manager) {
			continue
		}
		logger.Infof(ctx, "installing with %s", option.manager)
		err := runInstallCommands(ctx, option.commands)
		if err == nil {
			return nil
		}
		result = multierror.Append(result, fmt.Errorf("%s: %w", option.manager, err))
	}

	if result == nil {
		return fmt.Errorf("no supported package manager found for %s", goruntime.GOOS)
	}
	return result.ErrorOrNil()
}

func runInstallCommands(ctx context.Context, commands [][]string) error {
	for _, command := range commands {
		if err := runCommandWithPossibleElevation(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

func runCommandWithPossibleElevation(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}

	candidates := [][]string{command}
	if goruntime.GOOS == "linux" && requiresElevation(command[0]) {
		if commandAvailable("pkexec") {
			candidates = append(candidates, append([]string{"pkexec"}, command...))
		}
		if commandAvailable("sudo") {
			candidates = append(candidates, append([]string{"sudo", "-n"}, command...))
		}
	}

	var result *multierror.Error
	for _, candidate := range candidates {
		err := runCommand(ctx, candidate[0], candidate[1:]...)
		if err == nil {
			return nil
		}
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func runCommand(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, installCommandTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", formatCommand(name, args), installCommandTimeout)
	}

	trimmed := strings.TrimSpace(string(output))
	if len(trimmed) > 500 {
		trimmed = trimmed[:500] + "..."
	}
	if trimmed == "" {
		return fmt.Errorf("%s failed: %w", formatCommand(name, args), err)
	}
	return fmt.Errorf("%s failed: %w (%s)", formatCommand(name, args), err, trimmed)
}

func formatCommand(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func requiresElevation(manager string) bool {
	switch manager {
	case "apt-get", "dnf", "pacman", "zypper":
		return true
	default:
		return false
	}
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func createModelDir(modelDir string) error {
	modelDir = strings.TrimSpace(modelDir)
	if modelDir == "" {
		return fmt.Errorf("model directory is not configured")
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return fmt.Errorf("create model directory %s: %w", modelDir, err)
	}
	return nil
}
