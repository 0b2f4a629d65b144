package mware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/mware"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/jwt"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

type mockParser struct {
	ParseFunc func(tokenStr string) (*jwt.SessionClaims, error)
}

func (m *mockParser) ParseToken(tokenStr string) (*jwt.SessionClaims, error) {
	return m.ParseFunc(tokenStr)
}

func TestJWTMiddleware(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		parser := &mockParser{
			ParseFunc: func(tokenStr string) (*jwt.SessionClaims, error) {
				require.Equal(t, "valid-token", tokenStr)
				claims := &jwt.SessionClaims{SessionID: "sess-1"}
				claims.Subject = "user-1"
				return claims, nil
			},
		}

		// хэндлер, который проверит наличие claims в контексте
		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			claims, ok := mware.ClaimsFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, "user-1", claims.UserID())
			assert.Equal(t, "sess-1", claims.SessionID)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()

		mware.JWTMiddleware(parser, sl.Discard())(next).ServeHTTP(w, req)

		assert.True(t, nextCalled, "next handler must be called")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing Authorization header", func(t *testing.T) {
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler should not be called on missing header")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		mware.JWTMiddleware(&mockParser{}, sl.Discard())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing or invalid authorization header")
	})

	t.Run("invalid token", func(t *testing.T) {
		parser := &mockParser{
			ParseFunc: func(string) (*jwt.SessionClaims, error) {
				return nil, jwt.ErrInvalidToken
			},
		}
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("next handler should not be called on invalid token")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer broken")
		w := httptest.NewRecorder()

		mware.JWTMiddleware(parser, sl.Discard())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := mware.ClaimsFromContext(req.Context())
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 2)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mware.RateLimit(limiter, sl.Discard())(next)

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_IndependentLimiters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	first := mware.RateLimit(rate.NewLimiter(rate.Limit(0.001), 1), sl.Discard())(next)
	second := mware.RateLimit(rate.NewLimiter(rate.Limit(0.001), 1), sl.Discard())(next)

	w := httptest.NewRecorder()
	first.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	second.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
