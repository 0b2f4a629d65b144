// Package request содержит общий разбор тела запроса и ответ с ошибкой
// для обработчиков моста.
package request

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

var validate = validator.New()

// Decode читает JSON-тело в dst и проверяет его теги validate.
// При ошибке сам пишет ответ 400 и возвращает false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			log.Error("failed to validate request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request"))
			return false
		}
		log.Error("invalid request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return false
	}
	return true
}

// Fail пишет ошибку операции с подходящим HTTP-статусом.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, response.HTTPStatus(err))
	render.JSON(w, r, response.Error(err.Error()))
}

// FailWithData как Fail, но кладёт в data то, что операция успела получить.
func FailWithData(w http.ResponseWriter, r *http.Request, err error, data any) {
	render.Status(r, response.HTTPStatus(err))
	render.JSON(w, r, response.ErrorWithData(err.Error(), data))
}
