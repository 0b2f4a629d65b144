package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

func TestFetchAssessmentResults_CommonOnly(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/assessment/s-1/results", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"session_id":"s-1","user_id":"u-1","overall_score":55}`)
	})

	result, err := client.FetchAssessmentResults(context.Background(), "s-1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "s-1", result.SessionID)
	assert.Equal(t, "u-1", result.UserID)
	assert.InDelta(t, 55, result.OverallScore, 1e-9)
	assert.Equal(t, models.SchemaCommon, result.SchemaVersion())
	assert.Nil(t, result.Archetype)
	assert.Nil(t, result.CharacterProfile)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationResults, OutcomeOK)))
}

func TestFetchAssessmentResults_EscapesSessionID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assessment/a%2Fb/results", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"sessionId":"a/b","userId":"u","overallScore":1}`)
	})

	result, err := client.FetchAssessmentResults(context.Background(), "a/b", "tok")
	require.NoError(t, err)
	assert.Equal(t, "a/b", result.SessionID)
}

func TestFetchAssessmentResults_NonSuccessIsHardError(t *testing.T) {
	tests := []struct {
		status int
		body   string
	}{
		{status: http.StatusUnauthorized, body: `{"error":"invalid token"}`},
		{status: http.StatusNotFound, body: `results not ready`},
		{status: http.StatusInternalServerError, body: ``},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, metrics := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			result, err := client.FetchAssessmentResults(context.Background(), "s-1", "tok")
			require.Error(t, err)
			assert.Nil(t, result)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.body, statusErr.Body)
			assert.Contains(t, err.Error(), http.StatusText(tt.status))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationResults, OutcomeServerError)))
		})
	}
}

func TestFetchAssessmentResults_UnknownShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"sessionId":"s-1"}}`)
	})

	_, err := client.FetchAssessmentResults(context.Background(), "s-1", "tok")
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, models.ErrMissingField)
}

func TestFetchAssessmentResults_EmptySessionID(t *testing.T) {
	client, _ := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("request must not be sent")
	})

	_, err := client.FetchAssessmentResults(context.Background(), "", "tok")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestFetchUserStatus_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/status", r.URL.Path)
		assert.Equal(t, "u 1&x", r.URL.Query().Get("userId"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"found":true,"user":{"id":"u 1&x"},"products":{"goodhang":{"enabled":true}},"recommended_action":"view_results"}`)
	})

	status, err := client.FetchUserStatus(context.Background(), "tok", "u 1&x")
	require.NoError(t, err)
	assert.True(t, status.Found)
	assert.True(t, status.Products.GoodHang.Enabled)
	assert.Equal(t, "view_results", status.RecommendedAction)
}

func TestFetchUserStatus_NoUserFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"found":true,"recommended_action":"continue"}`)
	})

	status, err := client.FetchUserStatus(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.True(t, status.Found)
}

func TestFetchUserStatus_NotFoundIsDefault(t *testing.T) {
	bodies := []string{``, `{"found":true,"recommended_action":"view_results"}`, `not json at all`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			client, metrics := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, body)
			})

			status, err := client.FetchUserStatus(context.Background(), "tok", "u-1")
			require.NoError(t, err)
			assert.False(t, status.Found)
			assert.Equal(t, models.RecommendedStartOnboarding, status.RecommendedAction)
			assert.False(t, status.Products.GoodHang.Enabled)
			assert.False(t, status.Products.FounderOS.Enabled)
			assert.False(t, status.Products.VoiceOS.Enabled)
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationStatus, OutcomeNotFound)))
		})
	}
}

func TestFetchUserStatus_OtherErrorsAreHard(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
				_, _ = io.WriteString(w, "details")
			})

			_, err := client.FetchUserStatus(context.Background(), "tok", "")
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, code, statusErr.StatusCode)
			assert.Equal(t, "details", statusErr.Body)
		})
	}
}

func TestFetchUserStatus_DecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"found":"yes"}`)
	})

	_, err := client.FetchUserStatus(context.Background(), "tok", "")
	assert.ErrorIs(t, err, ErrDecode)
}
