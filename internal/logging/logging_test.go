package logging

import (
	"context"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLevelFromEnv checks level parsing and the info fallback.
func TestLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnv, "")
	assert.Equal(t, logger.LevelInfo, LevelFromEnv())

	t.Setenv(LevelEnv, "debug")
	assert.Equal(t, logger.LevelDebug, LevelFromEnv())

	t.Setenv(LevelEnv, "nonsense")
	assert.Equal(t, logger.LevelInfo, LevelFromEnv())
}

// TestNewAttachesLogger checks the context carries a logger at the env level.
func TestNewAttachesLogger(t *testing.T) {
	t.Setenv(LevelEnv, "error")
	ctx := New(context.Background())
	l := logger.FromCtx(ctx)
	require.NotNil(t, l)
	assert.Equal(t, logger.LevelError, l.Level())
}
