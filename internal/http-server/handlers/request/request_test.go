package request_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/request"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lifecycle"
)

type payload struct {
	Code string `json:"code" validate:"required"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
		wantError  string
	}{
		{name: "valid", body: `{"code":"GH-1"}`, wantOK: true, wantStatus: http.StatusOK},
		{name: "malformed json", body: `{bad`, wantStatus: http.StatusBadRequest, wantError: "failed to decode request"},
		{name: "missing field", body: `{}`, wantStatus: http.StatusBadRequest, wantError: "field Code is a required field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			ok := request.Decode(w, req, sl.Discard(), &dst)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantOK {
				assert.Equal(t, "GH-1", dst.Code)
				return
			}
			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, response.StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.wantError)
		})
	}
}

func TestFail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	request.Fail(w, req, lifecycle.ErrActivationInProgress)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, lifecycle.ErrActivationInProgress.Error(), resp.Error)
}

func TestFailWithData(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	request.FailWithData(w, req, lifecycle.ErrNoSession, map[string]string{"userId": "u-1"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"Error","error":"no active session","data":{"userId":"u-1"}}`, w.Body.String())
}
