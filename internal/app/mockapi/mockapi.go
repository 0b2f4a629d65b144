// Package mockapi поднимает локальный сервер, эмулирующий удалённый API
// активации, для разработки без доступа к настоящему сервису.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/jwt"
	"github.com/magabrotheeeer/goodhang-desktop/internal/mockapi"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	registry *mockapi.Registry
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.mockapi.New"

	seeds := make([]mockapi.Seed, 0, len(cfg.MockAPI.Codes))
	for _, c := range cfg.MockAPI.Codes {
		seeds = append(seeds, mockapi.Seed{Code: c.Code, Product: c.Product, Tier: c.Tier})
	}
	registry, err := mockapi.NewRegistry(seeds...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	mockapi.NewServer(registry, jwt.NewJWTMaker(cfg.MockAPI.JWTSecretKey, cfg.MockAPI.TokenTTL), logger).Routes(router)

	srv := &http.Server{
		Addr:         cfg.MockAPI.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info("mock api seeded", slog.Int("codes", len(seeds)))

	return &App{
		server:   srv,
		logger:   logger,
		registry: registry,
	}, nil
}

// Handler возвращает роутер сервера.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Registry возвращает реестр кодов и результатов.
func (a *App) Registry() *mockapi.Registry {
	return a.registry
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("mock api starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down mock api gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
