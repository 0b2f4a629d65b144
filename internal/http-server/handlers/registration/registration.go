package registration

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
)

type Provider interface {
	Registration(ctx context.Context) (*models.DeviceRegistration, error)
}

// Payload - регистрация устройства без refresh-токена.
type Payload struct {
	ActivationCode  string `json:"activationCode"`
	UserID          string `json:"userId"`
	Product         string `json:"product"`
	HasRefreshToken bool   `json:"hasRefreshToken"`
}

// New отдаёт регистрацию устройства. Если устройство не активировано,
// data отсутствует.
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.registration.New"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		reg, err := provider.Registration(r.Context())
		if errors.Is(err, lifecycle.ErrNotActivated) {
			render.JSON(w, r, response.OK())
			return
		}
		if err != nil {
			log.Error("failed to read device registration", sl.Err(err))
			request.Fail(w, r, err)
			return
		}
		render.JSON(w, r, response.StatusOKWithData(Payload{
			ActivationCode:  reg.ActivationCode,
			UserID:          reg.UserID,
			Product:         reg.Product,
			HasRefreshToken: reg.RefreshToken != "",
		}))
	}
}
