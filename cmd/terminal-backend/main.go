package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/terminal-backend/internal/telemetry"
	"github.com/alovak/terminal-backend/terminal"
)

func main() {
	cfg, err := terminal.LoadConfig()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	logger, shutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "terminal-backend",
		Enabled:     cfg.Telemetry,
		LogLevel:    cfg.LogLevel,
		Output:      os.Stdout,
	})
	if err != nil {
		slog.Error("setting up telemetry", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("shutting down telemetry", "err", err)
		}
	}()

	app := terminal.NewApp(logger, cfg, nil)
	if err := app.Start(); err != nil {
		logger.Error("starting app", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	app.Shutdown()
}
