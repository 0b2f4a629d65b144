package claim

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

type Claimer interface {
	Claim(ctx context.Context, req lifecycle.ClaimRequest) (*models.ClaimOutcome, error)
}

type Session struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId" validate:"required"`
	Token     string `json:"token"`
}

type Request struct {
	Code         string   `json:"code" validate:"required"`
	UserID       string   `json:"userId"`
	RefreshToken string   `json:"refreshToken"`
	Session      *Session `json:"session"`
}

// New закрепляет код за пользователем и сохраняет регистрацию устройства.
func New(log *slog.Logger, claimer Claimer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.claim.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		claimReq := lifecycle.ClaimRequest{
			Code:         req.Code,
			UserID:       req.UserID,
			RefreshToken: req.RefreshToken,
		}
		if req.Session != nil {
			claimReq.Session = &models.SessionRecord{
				UserID:    req.Session.UserID,
				SessionID: req.Session.SessionID,
				Token:     req.Session.Token,
			}
		}

		outcome, err := claimer.Claim(r.Context(), claimReq)
		if err != nil && outcome != nil {
			// код активирован на сервере, но локально не сохранён
			log.Error("claim succeeded but was not persisted", sl.Err(err), slog.Bool("success", outcome.Success))
			request.FailWithData(w, r, err, outcome)
			return
		}
		if err != nil {
			log.Error("failed to claim activation code", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("claim finished", slog.Bool("success", outcome.Success))
		render.JSON(w, r, response.StatusOKWithData(outcome))
	}
}
