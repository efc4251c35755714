package main

import (
	"context"
	"embed"

	"github.com/facebookincubator/go-belt/tool/logger"

	"voice-to-text/internal/bootstrap"
	"voice-to-text/internal/logging"
	"voice-to-text/internal/models/whispercpp"
)

//go:embed frontend/index.html
var appAssets embed.FS

func main() {
	ctx := logging.New(context.Background())

	app, err := bootstrap.NewWithAssets(ctx, appAssets, whispercpp.Open)
	if err != nil {
		logger.Fatalf(ctx, "bootstrap app: %v", err)
	}

	if err := app.Run(); err != nil {
		logger.Fatalf(ctx, "run app: %v", err)
	}
}
