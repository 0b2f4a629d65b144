package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

type validateRequest struct {
	Code string `json:"code"`
}

type claimRequest struct {
	Code   string `json:"code"`
	UserID string `json:"userId"`
}

// ValidateActivationKey проверяет код активации.
//
// Транспортная ошибка возвращается как ErrNetwork. Ответ не 2xx возвращается
// успешным результатом с valid=false и текстом статуса сервера.
func (c *Client) ValidateActivationKey(ctx context.Context, code string) (*models.ValidationOutcome, error) {
	const op = "apiclient.ValidateActivationKey"
	started := time.Now()
	log := c.log.With(sl.Op(op))

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCode)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/activation/validate", nil, validateRequest{Code: code}, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.do(req)
	if err != nil {
		c.metrics.observe(OperationValidate, OutcomeNetworkError, started)
		log.Error("validate request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(resp.Body)

	if !isSuccess(resp.StatusCode) {
		c.metrics.observe(OperationValidate, OutcomeSoftFailure, started)
		log.Warn("validate rejected by server", slog.Int("status", resp.StatusCode))
		return models.InvalidValidation(softFailureText(resp)), nil
	}

	var outcome models.ValidationOutcome
	if err := decodeJSON(resp.Body, &outcome); err != nil {
		c.metrics.observe(OperationValidate, OutcomeDecodeError, started)
		log.Error("failed to decode validate response", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.observe(OperationValidate, OutcomeOK, started)
	log.Info("activation code validated", slog.Bool("valid", outcome.Valid))
	return &outcome, nil
}

// ClaimActivationKey закрепляет код за пользователем.
//
// Транспортная ошибка возвращается как ErrNetwork. Ответ не 2xx возвращается
// успешным результатом с success=false и текстом статуса сервера.
// Повторная активация того же кода - забота сервера, локально не отслеживается.
func (c *Client) ClaimActivationKey(ctx context.Context, code, userID string) (*models.ClaimOutcome, error) {
	const op = "apiclient.ClaimActivationKey"
	started := time.Now()
	log := c.log.With(sl.Op(op))

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCode)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/activation/claim", nil, claimRequest{Code: code, UserID: userID}, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.do(req)
	if err != nil {
		c.metrics.observe(OperationClaim, OutcomeNetworkError, started)
		log.Error("claim request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(resp.Body)

	if !isSuccess(resp.StatusCode) {
		c.metrics.observe(OperationClaim, OutcomeSoftFailure, started)
		log.Warn("claim rejected by server", slog.Int("status", resp.StatusCode))
		return models.FailedClaim(softFailureText(resp)), nil
	}

	var outcome models.ClaimOutcome
	if err := decodeJSON(resp.Body, &outcome); err != nil {
		c.metrics.observe(OperationClaim, OutcomeDecodeError, started)
		log.Error("failed to decode claim response", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.observe(OperationClaim, OutcomeOK, started)
	log.Info("activation code claimed", slog.Bool("success", outcome.Success))
	return &outcome, nil
}

// IsNetworkError сообщает, является ли ошибка транспортной.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}
