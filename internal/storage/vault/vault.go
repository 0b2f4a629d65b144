// Package vault хранит учётные данные в системном хранилище секретов
// (Keychain, Credential Manager, Secret Service) через go-keyring.
//
// Каждая запись - отдельный элемент (service, account), где account:
// device_registration или session. При чтении сессии токен не возвращается.
package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

// Store - хранилище поверх системного хранилища секретов.
type Store struct {
	service string
	log     *slog.Logger
}

// New создаёт хранилище для идентификатора приложения service.
func New(service string, log *slog.Logger) *Store {
	return &Store{service: service, log: log}
}

func (s *Store) Capabilities() storage.Capabilities {
	return storage.Capabilities{SessionTokenReadBack: false}
}

func (s *Store) StoreDeviceRegistration(ctx context.Context, reg models.DeviceRegistration) error {
	return s.put(ctx, "vault.StoreDeviceRegistration", storage.KeyDeviceRegistration, reg)
}

func (s *Store) GetDeviceRegistration(ctx context.Context) (*models.DeviceRegistration, error) {
	var reg models.DeviceRegistration
	found, err := s.get(ctx, "vault.GetDeviceRegistration", storage.KeyDeviceRegistration, &reg)
	if err != nil || !found {
		return nil, err
	}
	return &reg, nil
}

func (s *Store) ClearDeviceRegistration(ctx context.Context) error {
	return s.remove(ctx, "vault.ClearDeviceRegistration", storage.KeyDeviceRegistration)
}

func (s *Store) StoreSession(ctx context.Context, session models.SessionRecord) error {
	return s.put(ctx, "vault.StoreSession", storage.KeySession, session)
}

// GetSession возвращает сессию без токена.
func (s *Store) GetSession(ctx context.Context) (*models.SessionRecord, error) {
	var session models.SessionRecord
	found, err := s.get(ctx, "vault.GetSession", storage.KeySession, &session)
	if err != nil || !found {
		return nil, err
	}
	projection := session.Projection()
	return &projection, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.remove(ctx, "vault.ClearSession", storage.KeySession)
}

func (s *Store) put(ctx context.Context, op, account string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return storage.Wrap(op, err)
	}
	if err := keyring.Set(s.service, account, string(raw)); err != nil {
		return storage.Wrap(op, err)
	}
	s.log.Debug("record stored", slog.String("op", op), slog.String("account", account))
	return nil
}

func (s *Store) get(ctx context.Context, op, account string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	secret, err := keyring.Get(s.service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storage.Wrap(op, err)
	}
	if err := json.Unmarshal([]byte(secret), out); err != nil {
		return false, storage.Wrap(op, err)
	}
	return true, nil
}

func (s *Store) remove(ctx context.Context, op, account string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err := keyring.Delete(s.service, account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return storage.Wrap(op, err)
	}
	return nil
}
