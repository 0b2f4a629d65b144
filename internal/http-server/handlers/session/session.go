package session

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
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

type Store interface {
	StoreSession(ctx context.Context, session models.SessionRecord) error
	Session(ctx context.Context) (*models.SessionRecord, error)
	ClearSession(ctx context.Context) error
	Capabilities() storage.Capabilities
}

type Request struct {
	UserID    string `json:"userId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	Token     string `json:"token" validate:"required"`
}

// Payload - ответ get_session. TokenReadBack сообщает, вернул ли бэкенд токен.
type Payload struct {
	Session       *models.SessionRecord `json:"session"`
	TokenReadBack bool                  `json:"tokenReadBack"`
}

// NewStore сохраняет сессию.
func NewStore(log *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.NewStore"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		err := store.StoreSession(r.Context(), models.SessionRecord{
			UserID:    req.UserID,
			SessionID: req.SessionID,
			Token:     req.Token,
		})
		if err != nil {
			log.Error("failed to store session", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("session stored", slog.String("user_id", req.UserID))
		render.JSON(w, r, response.OK())
	}
}

// NewGet отдаёт сохранённую сессию в проекции бэкенда.
func NewGet(log *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.NewGet"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		session, err := store.Session(r.Context())
		if err != nil {
			log.Error("failed to read session", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		render.JSON(w, r, response.StatusOKWithData(Payload{
			Session:       session,
			TokenReadBack: store.Capabilities().SessionTokenReadBack,
		}))
	}
}

// NewClear удаляет сессию.
func NewClear(log *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.NewClear"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := store.ClearSession(r.Context()); err != nil {
			log.Error("failed to clear session", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("session cleared")
		render.JSON(w, r, response.OK())
	}
}
