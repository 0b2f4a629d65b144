package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork - транспортная ошибка (DNS, соединение, таймаут, TLS). Не повторяется автоматически.
	ErrNetwork = errors.New("network error")
	// ErrDecode - тело ответа не удалось разобрать.
	ErrDecode = errors.New("failed to parse response")
	// ErrEmptyCode - пустой код активации, запрос не отправляется.
	ErrEmptyCode = errors.New("activation code is empty")
	// ErrEmptySessionID - пустой идентификатор сессии, запрос не отправляется.
	ErrEmptySessionID = errors.New("session id is empty")
)

// StatusError - жёсткая ошибка сервера для запросов результатов и статуса.
// Несёт код ответа и тело как есть.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("Server error %s: %s", status, e.Body)
}

// softFailureText формирует текст мягкого отказа для validate/claim.
func softFailureText(resp *http.Response) string {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return "Server error: " + status
}
