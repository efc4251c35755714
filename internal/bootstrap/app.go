package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"voice-to-text/internal/audio"
	"voice-to-text/internal/config"
	"voice-to-text/internal/diagnostics"
	"voice-to-text/internal/domain"
	"voice-to-text/internal/export"
	"voice-to-text/internal/jobs"
	"voice-to-text/internal/models"
	"voice-to-text/internal/transcribe"
)

const (
	defaultSaveName = "transcription.txt"

	eventWindowView = "window:view"
	eventJob        = "job:event"
)

// App wires settings, the model cache, the worker and the window runtime.
// All window state changes are applied under mu; results from the
// conversion goroutine reach the window only through the UI loop.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Jobs        *jobs.Manager
	Models      modelSource
	Worker      transcriber
	Diagnostics domain.DiagnosticReport
	assets      fs.FS
	checker     *diagnostics.Checker
	modelDir    string
	ctx         context.Context

	mu      sync.Mutex
	window  windowState
	shell   shell
	pending []jobs.Event
	dialogs []dialog
	events  *jobs.EventBus

	ui       chan func()
	done     chan struct{}
	loopOnce sync.Once
	stopOnce sync.Once
}

// modelSource isolates the model cache behind an interface.
type modelSource interface {
	GetOrLoad(ctx context.Context, size domain.ModelSize) (*models.Handle, error)
	Loaded(size domain.ModelSize) bool
}

// transcriber isolates the transcription worker behind an interface.
type transcriber interface {
	Transcribe(ctx context.Context, handle *models.Handle, path string) (transcribe.Result, error)
}

type windowState struct {
	selectedFile string
	modelSize    domain.ModelSize
	status       string
	output       string
	language     string
	rtl          bool
	errorKind    domain.FailureKind
	errorMessage string
}

type dialog struct {
	title   string
	message string
}

// SelectionError reports a missing or unusable file or model size choice.
type SelectionError struct {
	Path    string
	Message string
}

// Error formats selection failures for logs and UI.
func (e *SelectionError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// New builds the application serving the frontend from ./frontend.
func New(ctx context.Context, open models.OpenFunc) (*App, error) {
	return NewWithAssets(ctx, nil, open)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(ctx context.Context, assets fs.FS, open models.OpenFunc) (*App, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user home: %w", err)
	}

	store := config.NewJSONStore(config.SettingsPath(homeDir))
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	loader := models.NewWhisperLoader(settings.ModelDir, open)
	worker := transcribe.NewWorker(audio.NewDecoder(), settings.Language)
	app := newApp(ctx, settings, store, models.NewManager(loader), worker)

	app.assets = assets
	app.modelDir = loader.Dir()
	app.checker = diagnostics.NewChecker(modelFileNames())
	app.Diagnostics = app.checker.Run(settings)

	logger.Infof(ctx, "settings loaded from %s (model %s, models in %s)", store.Path(), settings.ModelSize, settings.ModelDir)
	return app, nil
}

func newApp(ctx context.Context, settings domain.Settings, store config.Store, source modelSource, worker transcriber) *App {
	return &App{
		Settings: settings,
		Store:    store,
		Jobs:     jobs.NewManager(),
		Models:   source,
		Worker:   worker,
		ctx:      ctx,
		window: windowState{
			modelSize: settings.ModelSize,
			status:    "Ready",
		},
		events: jobs.NewEventBus(200),
		ui:     make(chan func(), 16),
		done:   make(chan struct{}),
	}
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Voice to Text Converter",
		Width:       800,
		Height:      600,
		MinWidth:    640,
		MinHeight:   480,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup binds the window runtime and starts the UI loop.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.shell = &wailsShell{ctx: ctx}
	a.mu.Unlock()
	a.startLoop()
}

// Shutdown detaches the window runtime and stops the UI loop.
func (a *App) Shutdown(context.Context) {
	a.mu.Lock()
	a.shell = nil
	a.mu.Unlock()
	a.stopOnce.Do(func() {
		close(a.done)
	})
}

// View returns the current window snapshot.
func (a *App) View() domain.WindowView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.viewLocked()
}

// SelectFile opens the native audio picker and records the chosen file.
// Cancelling the dialog leaves the window unchanged.
func (a *App) SelectFile() (domain.WindowView, error) {
	if a.Jobs.IsRunning() {
		return a.View(), nil
	}
	sh := a.currentShell()
	if sh == nil {
		return a.View(), fmt.Errorf("runtime context is not initialized")
	}

	path, err := sh.OpenAudioFile()
	if err != nil {
		return a.View(), fmt.Errorf("open file dialog: %w", err)
	}
	if path == "" {
		return a.View(), nil
	}
	return a.ChooseFile(path)
}

// ChooseFile records path as the Selected File. The extension is checked
// when a conversion starts.
func (a *App) ChooseFile(path string) (domain.WindowView, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return a.View(), nil
	}

	view := a.update(func() {
		if a.Jobs.IsRunning() {
			return
		}
		a.window.selectedFile = path
		a.window.status = "File selected - Ready to convert"
		a.window.errorKind = ""
		a.window.errorMessage = ""
	})
	return view, nil
}

// SelectModelSize records the size used by the next conversion and
// remembers it across restarts. No model is loaded here.
func (a *App) SelectModelSize(raw string) (domain.WindowView, error) {
	size, err := domain.ParseModelSize(raw)
	if err != nil {
		selErr := &SelectionError{Message: fmt.Sprintf("Unknown model size: %q", raw)}
		return a.update(func() { a.failLocked(selErr) }), selErr
	}

	var settings domain.Settings
	changed := false
	view := a.update(func() {
		if a.Jobs.IsRunning() {
			return
		}
		a.window.modelSize = size
		a.window.status = fmt.Sprintf("Model %s selected", size)
		a.Settings.ModelSize = size
		settings = a.Settings
		changed = true
	})

	if changed && a.Store != nil {
		if err := a.Store.Save(settings); err != nil {
			logger.Warnf(a.ctx, "save model size: %v", err)
		}
	}
	return view, nil
}

// Convert starts one background conversion of the Selected File at the
// selected size. While a conversion is in flight it does nothing.
func (a *App) Convert() (domain.WindowView, error) {
	var (
		started bool
		jobID   string
		path    string
		size    domain.ModelSize
		selErr  error
	)

	view := a.update(func() {
		if a.Jobs.IsRunning() {
			return
		}

		path = a.window.selectedFile
		size = a.window.modelSize
		if err := validateSelection(path, size); err != nil {
			selErr = err
			a.failLocked(err)
			return
		}

		jobID = uuid.NewString()
		if err := a.Jobs.Begin(jobID); err != nil {
			return
		}
		started = true
		a.window.errorKind = ""
		a.window.errorMessage = ""
		a.window.status = fmt.Sprintf("Loading Whisper %s model...", size)
		a.publishLocked(jobs.Event{
			JobID:     jobID,
			Type:      jobs.EventTypeStatus,
			State:     domain.UIStateLoadingModel,
			ModelSize: size,
			Message:   a.window.status,
		})
	})

	if selErr != nil {
		logger.Warnf(a.ctx, "convert rejected: %v", selErr)
		return view, selErr
	}
	if started {
		logger.Infof(a.ctx, "conversion %s started: %s (model %s)", jobID, path, size)
		go a.runConversion(jobID, path, size)
	}
	return view, nil
}

// CopyText puts the output text on the clipboard. Empty output is a no-op.
func (a *App) CopyText() (domain.WindowView, error) {
	a.mu.Lock()
	text := a.window.output
	sh := a.shell
	a.mu.Unlock()

	if text == "" {
		return a.View(), nil
	}

	var clipboard export.Clipboard
	if sh != nil {
		clipboard = sh
	}
	if err := export.CopyText(clipboard, text); err != nil {
		return a.update(func() { a.failLocked(err) }), err
	}
	return a.update(func() {
		a.window.status = "Text copied to clipboard"
	}), nil
}

// SaveText asks for a destination and writes the output text as UTF-8.
// Empty output is a no-op.
func (a *App) SaveText() (domain.WindowView, error) {
	a.mu.Lock()
	empty := a.window.output == ""
	sh := a.shell
	a.mu.Unlock()

	if empty {
		return a.update(func() {
			a.window.status = "No text to save!"
		}), nil
	}
	if sh == nil {
		return a.View(), fmt.Errorf("runtime context is not initialized")
	}

	path, err := sh.SaveTextFile(defaultSaveName)
	if err != nil {
		return a.View(), fmt.Errorf("save file dialog: %w", err)
	}
	if path == "" {
		return a.View(), nil
	}
	return a.saveTo(export.EnsureTextExtension(path))
}

func (a *App) saveTo(path string) (domain.WindowView, error) {
	a.mu.Lock()
	text := a.window.output
	a.mu.Unlock()

	if err := export.WriteText(path, text); err != nil {
		logger.Errorf(a.ctx, "save transcription: %v", err)
		return a.update(func() { a.failLocked(err) }), err
	}

	logger.Infof(a.ctx, "transcription saved to %s", path)
	return a.update(func() {
		a.window.status = "Text saved to " + path
	}), nil
}

// Clear empties the output and the Selected File. Loaded models stay cached.
func (a *App) Clear() domain.WindowView {
	return a.update(func() {
		a.window.output = ""
		a.window.language = ""
		a.window.rtl = false
		a.window.selectedFile = ""
		a.window.status = "Text cleared"
	})
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings := a.currentSettings()
	if a.Store != nil {
		loaded, err := a.Store.Load()
		if err != nil {
			return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
		}
		settings = loaded
	}
	return a.refreshDiagnosticsFromSettings(settings), nil
}

// runConversion loads the model and transcribes path. It never touches
// window state directly.
func (a *App) runConversion(jobID, path string, size domain.ModelSize) {
	started := time.Now()
	ctx := a.ctx

	defer func() {
		if r := recover(); r != nil {
			err := &transcribe.Error{Stage: transcribe.StageRecognizing, Message: "transcription crashed", Err: fmt.Errorf("%v", r)}
			logger.Errorf(ctx, "conversion %s: %v", jobID, err)
			a.post(func() { a.finishFailed(jobID, err) })
		}
	}()

	handle, err := a.Models.GetOrLoad(ctx, size)
	if err != nil {
		logger.Errorf(ctx, "conversion %s: %v", jobID, err)
		a.post(func() { a.finishFailed(jobID, err) })
		return
	}

	a.post(func() {
		if err := a.Jobs.Transition(jobID, domain.UIStateTranscribing); err != nil {
			logger.Warnf(ctx, "conversion %s: %v", jobID, err)
			return
		}
		a.window.status = "Transcribing audio..."
		a.publishLocked(jobs.Event{
			JobID:     jobID,
			Type:      jobs.EventTypeStatus,
			State:     domain.UIStateTranscribing,
			ModelSize: size,
			Message:   a.window.status,
		})
	})

	result, err := a.Worker.Transcribe(ctx, handle, path)
	if err != nil {
		logger.Errorf(ctx, "conversion %s: %v", jobID, err)
		a.post(func() { a.finishFailed(jobID, err) })
		return
	}

	elapsed := time.Since(started)
	logger.Infof(ctx, "conversion %s done in %s (language %s, %d chars)", jobID, elapsed.Truncate(time.Millisecond), result.Language, len(result.Text))
	a.post(func() { a.finishSucceeded(jobID, result, elapsed) })
}

func (a *App) finishSucceeded(jobID string, result transcribe.Result, elapsed time.Duration) {
	if err := a.Jobs.Transition(jobID, domain.UIStateIdle); err != nil {
		logger.Warnf(a.ctx, "conversion %s: %v", jobID, err)
		return
	}

	a.window.output = result.Text
	a.window.language = result.Language
	a.window.rtl = result.RTL
	a.window.errorKind = ""
	a.window.errorMessage = ""
	a.window.status = "Transcription completed! Language: " + result.Language
	a.publishLocked(jobs.Event{
		JobID:    jobID,
		Type:     jobs.EventTypeResult,
		State:    domain.UIStateIdle,
		Message:  a.window.status,
		Language: result.Language,
		Elapsed:  elapsed,
	})
}

func (a *App) finishFailed(jobID string, err error) {
	if terr := a.Jobs.Transition(jobID, domain.UIStateError); terr != nil {
		logger.Warnf(a.ctx, "conversion %s: %v", jobID, terr)
		return
	}

	a.failLocked(err)
	a.publishLocked(jobs.Event{
		JobID:   jobID,
		Type:    jobs.EventTypeError,
		State:   domain.UIStateError,
		Kind:    a.window.errorKind,
		Message: a.window.errorMessage,
	})
}

// failLocked records err as the visible failure and queues an error dialog.
// The UI state is left to the caller.
func (a *App) failLocked(err error) {
	kind, title, message := describeFailure(err)
	a.window.errorKind = kind
	a.window.errorMessage = message
	a.window.status = failureStatus(kind, message)
	a.dialogs = append(a.dialogs, dialog{title: title, message: message})
}

func describeFailure(err error) (domain.FailureKind, string, string) {
	var (
		selErr    *SelectionError
		loadErr   *models.LoadError
		workErr   *transcribe.Error
		exportErr *export.Error
	)

	switch {
	case errors.As(err, &selErr):
		return domain.FailureSelection, "Selection Error", selErr.Message
	case errors.As(err, &loadErr):
		return domain.FailureLoad, "Model Error", "Failed to load Whisper model: " + loadErr.Error()
	case errors.As(err, &workErr):
		return domain.FailureTranscription, "Transcription Error", "Error during transcription: " + workErr.Error()
	case errors.As(err, &exportErr):
		if exportErr.Op == "copy" {
			return domain.FailureExport, "Copy Error", "Failed to copy text: " + exportErr.Err.Error()
		}
		return domain.FailureExport, "Save Error", "Failed to save file: " + exportErr.Error()
	default:
		return domain.FailureTranscription, "Error", err.Error()
	}
}

func failureStatus(kind domain.FailureKind, message string) string {
	switch kind {
	case domain.FailureSelection:
		return message
	case domain.FailureLoad:
		return "Error loading model"
	case domain.FailureExport:
		return "Export failed"
	default:
		return "Transcription failed"
	}
}

func validateSelection(path string, size domain.ModelSize) error {
	if strings.TrimSpace(path) == "" {
		return &SelectionError{Message: "Please select an audio file first."}
	}
	if !domain.IsSupportedAudio(path) {
		return &SelectionError{
			Path:    path,
			Message: fmt.Sprintf("Unsupported file type %q. Choose one of: %s", filepath.Ext(path), strings.Join(domain.SupportedAudioExtensions, ", ")),
		}
	}
	if !size.Valid() {
		return &SelectionError{Message: fmt.Sprintf("Unknown model size: %q", size)}
	}
	return nil
}

// post hands fn to the UI loop.
func (a *App) post(fn func()) {
	a.startLoop()
	select {
	case a.ui <- fn:
	case <-a.done:
	}
}

func (a *App) startLoop() {
	a.loopOnce.Do(func() {
		go a.uiLoop()
	})
}

func (a *App) uiLoop() {
	for {
		select {
		case fn := <-a.ui:
			a.update(fn)
		case <-a.done:
			return
		}
	}
}

// update applies fn under the window lock, then pushes queued events,
// dialogs and the new view to the frontend.
func (a *App) update(fn func()) domain.WindowView {
	a.mu.Lock()
	fn()
	view := a.viewLocked()
	pending := a.pending
	dialogs := a.dialogs
	a.pending = nil
	a.dialogs = nil
	sh := a.shell
	a.mu.Unlock()

	if sh == nil {
		return view
	}
	for _, event := range pending {
		sh.Emit(eventJob, event)
	}
	sh.Emit(eventWindowView, view)
	for _, d := range dialogs {
		sh.ShowError(d.title, d.message)
	}
	return view
}

func (a *App) publishLocked(event jobs.Event) {
	a.pending = append(a.pending, a.events.Publish(event))
}

func (a *App) viewLocked() domain.WindowView {
	state := a.Jobs.State()
	busy := state.Busy()

	var name string
	if a.window.selectedFile != "" {
		name = filepath.Base(a.window.selectedFile)
	}

	return domain.WindowView{
		State:          state,
		Busy:           busy,
		SelectedFile:   a.window.selectedFile,
		SelectedName:   name,
		ModelSize:      a.window.modelSize,
		Status:         a.window.status,
		Output:         a.window.output,
		Language:       a.window.language,
		RTL:            a.window.rtl,
		ErrorKind:      a.window.errorKind,
		ErrorMessage:   a.window.errorMessage,
		CanSelect:      !busy,
		CanConvert:     !busy && a.window.selectedFile != "",
		CanChangeModel: !busy,
		CanExport:      a.window.output != "",
	}
}

func (a *App) currentShell() shell {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shell
}

func (a *App) currentSettings() domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Settings
}

func modelFileNames() []string {
	return lo.Map(models.Catalog(""), func(option domain.WhisperModelOption, _ int) string {
		return option.FileName
	})
}
