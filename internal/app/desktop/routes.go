// Package desktop собирает основной процесс приложения: хранилище, клиент
// удалённого API, диспетчер ссылок и локальный HTTP-мост к окну.
package desktop

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/goodhang-desktop/internal/apiclient"
	"github.com/magabrotheeeer/goodhang-desktop/internal/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/events"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/claim"
	deeplinkhandler "github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/health"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/registration"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/results"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/session"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/signout"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/status"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/validate"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/mware"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
)

// Deps - зависимости маршрутов моста.
type Deps struct {
	Manager    *lifecycle.Manager
	Client     *apiclient.Client
	Dispatcher *deeplink.Dispatcher
	Hub        *events.Hub
	Metrics    http.Handler
	Limiter    *rate.Limiter
}

// RegisterRoutes регистрирует все маршруты моста.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		mware.RateLimit(deps.Limiter, logger),
	)

	r.Route("/commands", func(r chi.Router) {
		r.Post("/validate_activation_key", validate.New(logger, deps.Manager))
		r.Post("/claim_activation_key", claim.New(logger, deps.Manager))
		r.Post("/fetch_assessment_results", results.New(logger, deps.Client, deps.Manager))
		r.Post("/fetch_user_status", status.New(logger, deps.Client, deps.Manager))
		r.Post("/store_session", session.NewStore(logger, deps.Manager))
		r.Get("/get_session", session.NewGet(logger, deps.Manager))
		r.Post("/clear_session", session.NewClear(logger, deps.Manager))
		r.Get("/get_device_registration", registration.New(logger, deps.Manager))
		r.Post("/sign_out", signout.New(logger, deps.Manager))
	})

	r.Get("/healthz", health.New(logger, deps.Manager))
	r.Post("/deeplink", deeplinkhandler.New(logger, deps.Dispatcher))
	r.Get("/events", deps.Hub.Handler(logger))
	r.Handle("/metrics", deps.Metrics)
}
