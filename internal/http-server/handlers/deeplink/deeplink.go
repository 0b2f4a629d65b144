package deeplink

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
)

type URLHandler interface {
	HandleURLs(urls ...string) int
}

type Request struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
}

// New принимает ссылки, пересланные вторым экземпляром приложения.
func New(log *slog.Logger, handler URLHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.deeplink.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if !request.Decode(w, r, log, &req) {
			return
		}

		delivered := handler.HandleURLs(req.URLs...)
		log.Info("deep links forwarded", slog.Int("received", len(req.URLs)), slog.Int("delivered", delivered))
		render.JSON(w, r, response.StatusOKWithData(map[string]int{
			"delivered": delivered,
		}))
	}
}
