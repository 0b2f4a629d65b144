package results

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

// Fetcher запрашивает результаты с явным токеном.
type Fetcher interface {
	FetchAssessmentResults(ctx context.Context, sessionID, token string) (*models.AssessmentResult, error)
}

// SessionResults запрашивает результаты с токеном сохранённой сессии.
type SessionResults interface {
	Results(ctx context.Context, sessionID string) (*models.AssessmentResult, error)
}

type Request struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// New отдаёт результаты оценки. Без token используется сохранённая сессия.
func New(log *slog.Logger, fetcher Fetcher, stored SessionResults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.results.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		var (
			result *models.AssessmentResult
			err    error
		)
		if req.Token != "" {
			result, err = fetcher.FetchAssessmentResults(r.Context(), req.SessionID, req.Token)
		} else {
			result, err = stored.Results(r.Context(), req.SessionID)
		}
		if err != nil {
			log.Error("failed to fetch assessment results", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("assessment results fetched",
			slog.String("session_id", result.SessionID),
			slog.String("schema", string(result.SchemaVersion())),
		)
		render.JSON(w, r, response.StatusOKWithData(result))
	}
}
