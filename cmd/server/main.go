package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server"
	"github.com/impulseapp/impulse-api/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
