// Package main запускает локальный mock удалённого API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/goodhang-desktop/internal/app/mockapi"
	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting mockapi", slog.String("address", cfg.MockAPI.Address))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := mockapi.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize mock api", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("mock api stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("mockapi stopped gracefully")
}
