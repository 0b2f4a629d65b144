package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/goodhang-desktop/internal/apiclient"
	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/events"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// ErrAlreadyRunning - адрес моста занят другим экземпляром приложения.
var ErrAlreadyRunning = errors.New("another instance is already running")

// ValidatedEvent - полезная нагрузка события activation-validated.
type ValidatedEvent struct {
	Code    string                    `json:"code"`
	Outcome *models.ValidationOutcome `json:"outcome,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

type App struct {
	server     *http.Server
	listener   net.Listener
	logger     *slog.Logger
	manager    *lifecycle.Manager
	dispatcher *deeplink.Dispatcher
	window     *deeplink.ChannelWindow
	hub        *events.Hub
	closeStore func() error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "desktop.New"

	listener, err := net.Listen("tcp", cfg.HTTPServer.AddressHTTP)
	if errors.Is(err, syscall.EADDRINUSE) {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyRunning)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, closeStore, err := NewCredentialStore(ctx, cfg, logger)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	client := apiclient.NewClient(cfg.API.ResolveBaseURL(), cfg.API.Timeout, logger, apiclient.NewMetrics(registry))
	manager := lifecycle.New(client, store, logger)

	hub := events.NewHub(cfg.DeepLink.Buffer, logger)
	window := deeplink.NewChannelWindow(cfg.DeepLink.Buffer)
	locator := deeplink.StaticLocator{cfg.DeepLink.Window: deeplink.Fanout{hub, window}}
	dispatcher := deeplink.NewDispatcher(cfg.DeepLink.Scheme, cfg.DeepLink.Window, locator, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Manager:    manager,
		Client:     client,
		Dispatcher: dispatcher,
		Hub:        hub,
		Metrics:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Limiter:    rate.NewLimiter(rate.Limit(cfg.HTTPServer.RateLimit), cfg.HTTPServer.RateBurst),
	})

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutHTTP,
		WriteTimeout: cfg.HTTPServer.TimeoutHTTP,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	logger.Info("app configured",
		slog.String("api", client.BaseURL()),
		slog.String("store", cfg.Store.Backend),
		slog.Bool("token_read_back", store.Capabilities().SessionTokenReadBack),
	)

	return &App{
		server:     srv,
		listener:   listener,
		logger:     logger,
		manager:    manager,
		dispatcher: dispatcher,
		window:     window,
		hub:        hub,
		closeStore: closeStore,
	}, nil
}

// Addr возвращает фактический адрес моста.
func (a *App) Addr() string {
	return a.listener.Addr().String()
}

// Run восстанавливает состояние, поднимает мост, обрабатывает ссылки urls,
// с которыми был запущен процесс, и работает до отмены ctx.
func (a *App) Run(ctx context.Context, urls ...string) error {
	const op = "desktop.Run"

	if _, err := a.manager.Restore(ctx); err != nil {
		// повреждённое хранилище не мешает активироваться заново
		a.logger.Error("failed to restore state", sl.Op(op), sl.Err(err))
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.manager.Run(workerCtx, a.window.Events(), a.onValidated)
	}()

	// запросы, включая потоки событий, завершаются вместе с ctx
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("bridge listening on", slog.String("address", a.Addr()))
		err := a.server.Serve(a.listener)
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	if len(urls) > 0 {
		a.dispatcher.HandleURLs(urls...)
	}

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down bridge gracefully")
		runErr = a.server.Shutdown(timeoutCtx)
	}

	stopWorker()
	wg.Wait()
	a.window.Close()
	if err := a.closeStore(); err != nil {
		a.logger.Error("failed to close credential store", sl.Op(op), sl.Err(err))
	}
	return runErr
}

func (a *App) onValidated(code string, outcome *models.ValidationOutcome, err error) {
	event := ValidatedEvent{Code: code, Outcome: outcome}
	if err != nil {
		event.Error = err.Error()
	}
	if emitErr := a.hub.Emit(deeplink.EventActivationValidated, event); emitErr != nil {
		a.logger.Error("failed to emit validation result", sl.Err(emitErr))
	}
}
