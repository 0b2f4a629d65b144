package validate

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

type Validator interface {
	Validate(ctx context.Context, code string) (*models.ValidationOutcome, error)
}

type Request struct {
	Code string `json:"code" validate:"required"`
}

// New проверяет код активации. Отказ сервера приходит как data.valid=false.
func New(log *slog.Logger, validator Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.validate.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		outcome, err := validator.Validate(r.Context(), req.Code)
		if err != nil {
			log.Error("failed to validate activation code", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		log.Info("activation code checked", slog.Bool("valid", outcome.Valid))
		render.JSON(w, r, response.StatusOKWithData(outcome))
	}
}
