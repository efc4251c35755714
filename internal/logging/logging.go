// Package logging sets up the context-carried application logger.
package logging

import (
	"context"
	"os"
	"strings"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
)

// LevelEnv optionally overrides the default log level.
const LevelEnv = "VOICE_TO_TEXT_LOG_LEVEL"

// New builds a logrus-backed logger, installs it as the default, and
// returns ctx carrying it.
func New(ctx context.Context) context.Context {
	l := logrus.Default().WithLevel(LevelFromEnv())
	logger.Default = func() logger.Logger {
		return l
	}
	return logger.CtxWithLogger(ctx, l)
}

// LevelFromEnv parses LevelEnv, falling back to info.
func LevelFromEnv() logger.Level {
	level := logger.LevelInfo
	raw := strings.TrimSpace(os.Getenv(LevelEnv))
	if raw == "" {
		return level
	}
	if err := level.Set(raw); err != nil {
		return logger.LevelInfo
	}
	return level
}
