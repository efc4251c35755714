package jobs

import (
	"errors"
	"fmt"
	"sync"

	"voice-to-text/internal/domain"
)

// ErrConversionInFlight is returned when starting a second conversion.
var ErrConversionInFlight = errors.New("conversion already in progress")

// Manager tracks the window state machine and the single allowed conversion.
type Manager struct {
	mu      sync.RWMutex
	current domain.Job
}

// NewManager creates a manager in idle state.
func NewManager() *Manager {
	return &Manager{
		current: domain.Job{
			State: domain.UIStateIdle,
		},
	}
}

// Begin starts a conversion and moves it to loading-model state.
func (m *Manager) Begin(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.State.Busy() {
		return ErrConversionInFlight
	}
	if !isValidTransition(m.current.State, domain.UIStateLoadingModel) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.State, domain.UIStateLoadingModel)
	}

	m.current = domain.Job{
		ID:    jobID,
		State: domain.UIStateLoadingModel,
	}
	return nil
}

// Transition validates and applies a state change for the given conversion.
// Transitions for a stale job id are rejected.
func (m *Manager) Transition(jobID string, state domain.UIState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.ID == "" || m.current.ID != jobID {
		return fmt.Errorf("job %q is not the current conversion", jobID)
	}
	if state == m.current.State {
		return nil
	}
	if !isValidTransition(m.current.State, state) {
		return fmt.Errorf("invalid transition: %s -> %s", m.current.State, state)
	}

	m.current.State = state
	return nil
}

// State returns the current UI state.
func (m *Manager) State() domain.UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.State
}

// IsRunning reports whether a conversion is in flight.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.State.Busy()
}

// isValidTransition enforces the allowed state machine edges.
func isValidTransition(from, to domain.UIState) bool {
	switch from {
	case domain.UIStateIdle, domain.UIStateError:
		return to == domain.UIStateLoadingModel
	case domain.UIStateLoadingModel:
		return to == domain.UIStateTranscribing || to == domain.UIStateError
	case domain.UIStateTranscribing:
		return to == domain.UIStateIdle || to == domain.UIStateError
	default:
		return false
	}
}
