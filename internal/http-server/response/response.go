// Package response описывает конверт ответов моста {status, error, data}
// и соответствие ошибок HTTP-статусам.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/goodhang-desktop/internal/apiclient"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorWithData возвращает ошибку вместе с частичным результатом операции.
func ErrorWithData(msg string, data any) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
		Data:   data,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// HTTPStatus подбирает HTTP-статус для ошибки операции. Сбои хранилища и
// неизвестные ошибки дают 500.
func HTTPStatus(err error) int {
	var statusErr *apiclient.StatusError
	switch {
	case errors.Is(err, apiclient.ErrEmptyCode),
		errors.Is(err, apiclient.ErrEmptySessionID),
		errors.Is(err, lifecycle.ErrEmptyUserID):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrActivationInProgress):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrNoSession),
		errors.Is(err, lifecycle.ErrNotActivated):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrTokenUnavailable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &statusErr),
		errors.Is(err, apiclient.ErrNetwork),
		errors.Is(err, apiclient.ErrDecode):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
