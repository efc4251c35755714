package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-to-text/internal/domain"
)

// TestManagerLifecycle verifies normal progression back to idle.
func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	require.False(t, m.IsRunning(), "new manager should be idle")

	require.NoError(t, m.Begin("job-1"))
	require.True(t, m.IsRunning())

	for _, state := range []domain.UIState{
		domain.UIStateTranscribing,
		domain.UIStateIdle,
	} {
		require.NoError(t, m.Transition("job-1", state), state)
	}

	assert.Equal(t, domain.UIStateIdle, m.State())
}

// TestManagerBeginWhileBusy verifies only one conversion may run.
func TestManagerBeginWhileBusy(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("job-1"))

	assert.ErrorIs(t, m.Begin("job-2"), ErrConversionInFlight)
	require.NoError(t, m.Transition("job-1", domain.UIStateTranscribing))
	assert.ErrorIs(t, m.Begin("job-2"), ErrConversionInFlight)
	assert.Error(t, m.Transition("job-2", domain.UIStateIdle), "second job must not own the state")
}

// TestManagerRetryAfterError verifies error state allows a new conversion.
func TestManagerRetryAfterError(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("job-1"))
	require.NoError(t, m.Transition("job-1", domain.UIStateError))
	assert.False(t, m.IsRunning(), "error state should not be running")

	require.NoError(t, m.Begin("job-2"))
	assert.Equal(t, domain.UIStateLoadingModel, m.State())
}

// TestManagerRejectsInvalidTransition checks state machine constraints.
func TestManagerRejectsInvalidTransition(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("job-1"))

	assert.Error(t, m.Transition("job-1", domain.UIStateIdle), "loading-model -> idle")
	assert.Error(t, m.Transition("job-other", domain.UIStateTranscribing), "stale job")
	assert.Equal(t, domain.UIStateLoadingModel, m.State())
}
