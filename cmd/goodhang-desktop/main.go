// Package main запускает процесс настольного приложения goodhang.
//
// Аргументы командной строки считаются ссылками, с которыми ОС открыла
// приложение. Если приложение уже запущено, ссылки пересылаются ему.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/goodhang-desktop/internal/app/desktop"
	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	logger.Info("starting goodhang-desktop", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	urls := os.Args[1:]

	app, err := desktop.New(ctx, cfg, logger)
	if errors.Is(err, desktop.ErrAlreadyRunning) {
		if len(urls) == 0 {
			logger.Info("another instance is already running")
			return
		}
		delivered, err := desktop.Forward(ctx, cfg.HTTPServer.AddressHTTP, urls)
		if err != nil {
			logger.Error("failed to forward links to running instance", sl.Err(err))
			os.Exit(1)
		}
		logger.Info("links forwarded to running instance", slog.Int("delivered", delivered))
		return
	}
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx, urls...); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("goodhang-desktop stopped gracefully")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case config.ProfileLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}
