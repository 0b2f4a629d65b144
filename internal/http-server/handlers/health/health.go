package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

type Checker interface {
	Registration(ctx context.Context) (*models.DeviceRegistration, error)
	Capabilities() storage.Capabilities
}

type Payload struct {
	Status        string `json:"status"`
	Activated     bool   `json:"activated"`
	TokenReadBack bool   `json:"tokenReadBack"`
}

// New сообщает, что мост жив и хранилище читается.
func New(log *slog.Logger, checker Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.health.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		_, err := checker.Registration(r.Context())
		if err != nil && !errors.Is(err, lifecycle.ErrNotActivated) {
			log.Error("credential store is unavailable", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		render.JSON(w, r, response.StatusOKWithData(Payload{
			Status:        "ok",
			Activated:     err == nil,
			TokenReadBack: checker.Capabilities().SessionTokenReadBack,
		}))
	}
}
