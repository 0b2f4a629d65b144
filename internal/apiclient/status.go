package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// FetchAssessmentResults загружает результаты оценки сессии.
// Любой ответ не 2xx - жёсткая ошибка *StatusError с кодом и телом ответа.
func (c *Client) FetchAssessmentResults(ctx context.Context, sessionID, token string) (*models.AssessmentResult, error) {
	const op = "apiclient.FetchAssessmentResults"
	started := time.Now()
	log := c.log.With(sl.Op(op), slog.String("session_id", sessionID))

	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySessionID)
	}

	path := "/api/assessment/" + url.PathEscape(sessionID) + "/results"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.do(req)
	if err != nil {
		c.metrics.observe(OperationResults, OutcomeNetworkError, started)
		log.Error("results request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(resp.Body)

	if !isSuccess(resp.StatusCode) {
		c.metrics.observe(OperationResults, OutcomeServerError, started)
		statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: readBody(resp.Body)}
		log.Error("results request rejected", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w", op, statusErr)
	}

	var result models.AssessmentResult
	if err := decodeJSON(resp.Body, &result); err != nil {
		c.metrics.observe(OperationResults, OutcomeDecodeError, started)
		log.Error("failed to decode results", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.observe(OperationResults, OutcomeOK, started)
	log.Info("assessment results fetched", slog.String("schema", string(result.SchemaVersion())))
	return &result, nil
}

// FetchUserStatus загружает статус пользователя. userID необязателен.
//
// 404 - не ошибка: у сервиса ещё нет записи, возвращается models.DefaultUserStatus.
// Остальные ответы не 2xx - *StatusError.
func (c *Client) FetchUserStatus(ctx context.Context, token, userID string) (*models.UserStatus, error) {
	const op = "apiclient.FetchUserStatus"
	started := time.Now()
	log := c.log.With(sl.Op(op))

	var query url.Values
	if userID != "" {
		query = url.Values{"userId": []string{userID}}
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/user/status", query, nil, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.do(req)
	if err != nil {
		c.metrics.observe(OperationStatus, OutcomeNetworkError, started)
		log.Error("status request failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.observe(OperationStatus, OutcomeNotFound, started)
		log.Info("user has no status record yet")
		return models.DefaultUserStatus(), nil
	}
	if !isSuccess(resp.StatusCode) {
		c.metrics.observe(OperationStatus, OutcomeServerError, started)
		statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: readBody(resp.Body)}
		log.Error("status request rejected", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%s: %w", op, statusErr)
	}

	var status models.UserStatus
	if err := decodeJSON(resp.Body, &status); err != nil {
		c.metrics.observe(OperationStatus, OutcomeDecodeError, started)
		log.Error("failed to decode status", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.observe(OperationStatus, OutcomeOK, started)
	log.Info("user status fetched", slog.Bool("found", status.Found), slog.String("recommended_action", status.RecommendedAction))
	return &status, nil
}
