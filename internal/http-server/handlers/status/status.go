package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// Fetcher запрашивает статус с явным токеном.
type Fetcher interface {
	FetchUserStatus(ctx context.Context, token, userID string) (*models.UserStatus, error)
}

// SessionStatus запрашивает статус пользователя сохранённой сессии.
type SessionStatus interface {
	Status(ctx context.Context) (*models.UserStatus, error)
}

type Request struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// New отдаёт статус пользователя. Без token используется сохранённая сессия.
func New(log *slog.Logger, fetcher Fetcher, stored SessionStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.status.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		var (
			userStatus *models.UserStatus
			err        error
		)
		if req.Token != "" {
			userStatus, err = fetcher.FetchUserStatus(r.Context(), req.Token, req.UserID)
		} else {
			userStatus, err = stored.Status(r.Context())
		}
		if err != nil {
			log.Error("failed to fetch user status", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("user status fetched",
			slog.Bool("found", userStatus.Found),
			slog.String("recommended_action", userStatus.RecommendedAction),
		)
		render.JSON(w, r, response.StatusOKWithData(userStatus))
	}
}
