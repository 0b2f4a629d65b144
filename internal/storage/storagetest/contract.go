// Package storagetest содержит общий набор проверок контракта CredentialStore.
// Каждый бэкенд прогоняет его в своих тестах.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

// Factory создаёт пустое хранилище для одного подтеста.
type Factory func(t *testing.T) storage.CredentialStore

// Registration и Session - типовые записи для проверок.
var (
	Registration = models.DeviceRegistration{
		ActivationCode: "GH-7Q2K-9XTM",
		UserID:         "user-42",
		Product:        "goodhang",
		RefreshToken:   "refresh-abc",
	}
	Session = models.SessionRecord{
		UserID:    "user-42",
		SessionID: "sess-1",
		Token:     "token-xyz",
	}
)

// RunContract проверяет семантику контракта хранилища.
func RunContract(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store returns nothing", func(t *testing.T) {
		s := newStore(t)

		reg, err := s.GetDeviceRegistration(ctx)
		require.NoError(t, err)
		assert.Nil(t, reg)

		sess, err := s.GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("device registration round trip", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.StoreDeviceRegistration(ctx, Registration))

		got, err := s.GetDeviceRegistration(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, Registration, *got)
	})

	t.Run("store overwrites previous registration", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.StoreDeviceRegistration(ctx, Registration))
		next := Registration
		next.ActivationCode = "GH-NEXT"
		next.UserID = "user-43"
		require.NoError(t, s.StoreDeviceRegistration(ctx, next))

		got, err := s.GetDeviceRegistration(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, next, *got)
	})

	t.Run("session round trip respects capabilities", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.StoreSession(ctx, Session))

		got, err := s.GetSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)

		want := Session
		if !s.Capabilities().SessionTokenReadBack {
			want = Session.Projection()
		}
		assert.Equal(t, want, *got)
	})

	t.Run("clear session keeps registration", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.StoreDeviceRegistration(ctx, Registration))
		require.NoError(t, s.StoreSession(ctx, Session))
		require.NoError(t, s.ClearSession(ctx))

		sess, err := s.GetSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)

		reg, err := s.GetDeviceRegistration(ctx)
		require.NoError(t, err)
		require.NotNil(t, reg)
		assert.Equal(t, Registration, *reg)
	})

	t.Run("clear registration keeps session", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.StoreDeviceRegistration(ctx, Registration))
		require.NoError(t, s.StoreSession(ctx, Session))
		require.NoError(t, s.ClearDeviceRegistration(ctx))

		reg, err := s.GetDeviceRegistration(ctx)
		require.NoError(t, err)
		assert.Nil(t, reg)

		sess, err := s.GetSession(ctx)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, Session.SessionID, sess.SessionID)
	})

	t.Run("clearing absent records succeeds", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.ClearSession(ctx))
		require.NoError(t, s.ClearSession(ctx))
		require.NoError(t, s.ClearDeviceRegistration(ctx))
		require.NoError(t, s.ClearDeviceRegistration(ctx))
	})

	t.Run("cancelled context is rejected", func(t *testing.T) {
		s := newStore(t)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.StoreSession(cctx, Session)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
