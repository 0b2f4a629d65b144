package signout_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/goodhang-desktop/internal/http-server/handlers/signout"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

type mockSignOuter struct {
	SignOutFunc func(ctx context.Context) error
}

func (m *mockSignOuter) SignOut(ctx context.Context) error {
	return m.SignOutFunc(ctx)
}

func TestSignOutHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusOK},
		{name: "storage failure", err: storage.Wrap("op", errors.New("io")), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSignOuter{SignOutFunc: func(context.Context) error { return tt.err }}
			w := httptest.NewRecorder()

			signout.New(sl.Discard(), s).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/commands/sign_out", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
