package signout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

type SignOuter interface {
	SignOut(ctx context.Context) error
}

// New удаляет сессию и регистрацию устройства.
func New(log *slog.Logger, signOuter SignOuter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signout.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := signOuter.SignOut(r.Context()); err != nil {
			log.Error("failed to sign out", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		render.JSON(w, r, response.OK())
	}
}
