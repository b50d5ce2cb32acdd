package main

import (
	"log/slog"
	"os"

	"admin-console/internal/app"
	"admin-console/internal/config"
	"admin-console/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize console", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("console run failed", "error", err)
		os.Exit(1)
	}
}
