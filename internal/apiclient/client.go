// Package apiclient реализует клиентов удалённого API: активацию кодов
// (validate/claim) и чтение статуса пользователя и результатов оценки.
//
// Каждый вызов - один запрос без повторов. Ошибки validate/claim на стороне
// сервера возвращаются мягким отказом, ошибки results/status - жёсткой ошибкой.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

const (
	userAgent = "goodhang-desktop"
	// maxBodySize ограничивает чтение тела ответа.
	maxBodySize = 4 << 20
)

// Client - HTTP-клиент удалённого API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *Metrics
}

// NewClient создаёт клиент для baseURL. timeout ограничивает каждый вызов целиком,
// чтобы зависшее соединение не блокировало вызывающего бесконечно.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger, metrics *Metrics) *Client {
	if log == nil {
		log = sl.Discard()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		metrics:    metrics,
	}
}

// BaseURL возвращает активный базовый URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any, token string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var buf io.Reader
	if body != nil {
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(body); err != nil {
			return nil, err
		}
		buf = &b
	}
	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do выполняет запрос; транспортные ошибки оборачиваются в ErrNetwork.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return resp, nil
}

func decodeJSON(body io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func readBody(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, maxBodySize))
	return string(b)
}

func closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxBodySize))
	_ = body.Close()
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
