package main

import (
	"context"

	"github.com/facebookincubator/go-belt/tool/logger"

	"voice-to-text/internal/bootstrap"
	"voice-to-text/internal/logging"
	"voice-to-text/internal/models/whispercpp"
)

func main() {
	ctx := logging.New(context.Background())

	app, err := bootstrap.New(ctx, whispercpp.Open)
	if err != nil {
		logger.Fatalf(ctx, "bootstrap app: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.Fatalf(ctx, "run app: %v", err)
	}
}
