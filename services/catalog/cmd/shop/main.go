package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
	"github.com/hajadalaj/productmanagement/pkg/logger"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/app"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logger.Err(err))
		return apperrors.ExitInvalidInput
	}

	// Initialize structured logger. Stdout carries reports only.
	log := logger.NewFromFormat(app.ServiceName, cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log.Info("starting catalog",
		slog.String("environment", cfg.Environment),
		slog.String("locale", cfg.Locale),
		slog.String("input", inputName(cfg.InputPath)),
	)

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize application", logger.Err(err))
		return apperrors.ExitCode(err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := application.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", logger.Err(err))
		}
	}()

	var in io.Reader = os.Stdin
	if cfg.InputPath != "" {
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			log.Error("failed to open script", slog.String("path", cfg.InputPath), logger.Err(err))
			return apperrors.ExitInvalidInput
		}
		defer f.Close()
		in = f
	}

	if err := application.Run(ctx, in, os.Stdout); err != nil {
		log.Error("application error", logger.Err(err))
		return apperrors.ExitCode(err)
	}

	log.Info("catalog stopped")
	return apperrors.ExitOK
}

func inputName(path string) string {
	if path == "" {
		return "stdin"
	}
	return path
}
