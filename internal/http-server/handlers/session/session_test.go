package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/session"
	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/response"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

type mockStore struct {
	StoreFunc func(ctx context.Context, s models.SessionRecord) error
	GetFunc   func(ctx context.Context) (*models.SessionRecord, error)
	ClearFunc func(ctx context.Context) error
	readBack  bool
}

func (m *mockStore) StoreSession(ctx context.Context, s models.SessionRecord) error {
	return m.StoreFunc(ctx, s)
}

func (m *mockStore) Session(ctx context.Context) (*models.SessionRecord, error) {
	return m.GetFunc(ctx)
}

func (m *mockStore) ClearSession(ctx context.Context) error {
	return m.ClearFunc(ctx)
}

func (m *mockStore) Capabilities() storage.Capabilities {
	return storage.Capabilities{SessionTokenReadBack: m.readBack}
}

func TestStoreHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var stored models.SessionRecord
		store := &mockStore{
			StoreFunc: func(_ context.Context, s models.SessionRecord) error {
				stored = s
				return nil
			},
		}
		body := `{"userId":"user-1","sessionId":"sess-1","token":"tok"}`
		req := httptest.NewRequest(http.MethodPost, "/commands/store_session", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		session.NewStore(sl.Discard(), store).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.SessionRecord{UserID: "user-1", SessionID: "sess-1", Token: "tok"}, stored)
	})

	t.Run("missing token", func(t *testing.T) {
		store := &mockStore{
			StoreFunc: func(context.Context, models.SessionRecord) error {
				t.Fatal("store should not be called on validation error")
				return nil
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/commands/store_session", bytes.NewBufferString(`{"userId":"u","sessionId":"s"}`))
		w := httptest.NewRecorder()

		session.NewStore(sl.Discard(), store).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "field Token is a required field")
	})

	t.Run("storage failure", func(t *testing.T) {
		store := &mockStore{
			StoreFunc: func(context.Context, models.SessionRecord) error {
				return storage.Wrap("op", errors.New("vault locked"))
			},
		}
		body := `{"userId":"user-1","sessionId":"sess-1","token":"tok"}`
		req := httptest.NewRequest(http.MethodPost, "/commands/store_session", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		session.NewStore(sl.Discard(), store).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name     string
		session  *models.SessionRecord
		readBack bool
	}{
		{name: "no session"},
		{name: "projection", session: &models.SessionRecord{UserID: "user-1", SessionID: "sess-1"}},
		{name: "full record", session: &models.SessionRecord{UserID: "user-1", SessionID: "sess-1", Token: "tok"}, readBack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{
				GetFunc: func(context.Context) (*models.SessionRecord, error) {
					return tt.session, nil
				},
				readBack: tt.readBack,
			}
			req := httptest.NewRequest(http.MethodGet, "/commands/get_session", nil)
			w := httptest.NewRecorder()

			session.NewGet(sl.Discard(), store).ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var resp struct {
				Status string          `json:"status"`
				Data   session.Payload `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, response.StatusOK, resp.Status)
			assert.Equal(t, tt.session, resp.Data.Session)
			assert.Equal(t, tt.readBack, resp.Data.TokenReadBack)
		})
	}
}

func TestClearHandler(t *testing.T) {
	calls := 0
	store := &mockStore{
		ClearFunc: func(context.Context) error {
			calls++
			return nil
		},
	}
	handler := session.NewClear(sl.Discard(), store)

	for range 2 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/commands/clear_session", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 2, calls)
}
