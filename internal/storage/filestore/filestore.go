// Package filestore хранит учётные данные в одном JSON-файле с ключами
// верхнего уровня device_registration и session.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/fsx"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

const (
	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600
)

// document - содержимое файла. Неизвестные ключи сохраняются как есть.
type document map[string]json.RawMessage

// Store - файловое хранилище. Безопасно для одновременного использования
// внутри одного процесса.
type Store struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
}

// New создаёт хранилище в файле path, создавая каталог при необходимости.
// Сам файл появляется при первой записи.
func New(path string, log *slog.Logger) (*Store, error) {
	const op = "filestore.New"
	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}
	if err := fsx.EnsureDir(path, dirMode); err != nil {
		return nil, storage.Wrap(op, err)
	}
	return &Store{path: path, log: log}, nil
}

// Path возвращает путь к файлу хранилища.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Capabilities() storage.Capabilities {
	return storage.Capabilities{SessionTokenReadBack: true}
}

func (s *Store) StoreDeviceRegistration(ctx context.Context, reg models.DeviceRegistration) error {
	return s.put(ctx, "filestore.StoreDeviceRegistration", storage.KeyDeviceRegistration, reg)
}

func (s *Store) GetDeviceRegistration(ctx context.Context) (*models.DeviceRegistration, error) {
	var reg models.DeviceRegistration
	found, err := s.get(ctx, "filestore.GetDeviceRegistration", storage.KeyDeviceRegistration, &reg)
	if err != nil || !found {
		return nil, err
	}
	return &reg, nil
}

func (s *Store) ClearDeviceRegistration(ctx context.Context) error {
	return s.remove(ctx, "filestore.ClearDeviceRegistration", storage.KeyDeviceRegistration)
}

func (s *Store) StoreSession(ctx context.Context, session models.SessionRecord) error {
	return s.put(ctx, "filestore.StoreSession", storage.KeySession, session)
}

func (s *Store) GetSession(ctx context.Context) (*models.SessionRecord, error) {
	var session models.SessionRecord
	found, err := s.get(ctx, "filestore.GetSession", storage.KeySession, &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.remove(ctx, "filestore.ClearSession", storage.KeySession)
}

func (s *Store) put(ctx context.Context, op, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return storage.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return storage.Wrap(op, err)
	}
	doc[key] = raw
	if err := s.commit(doc); err != nil {
		return storage.Wrap(op, err)
	}
	s.log.Debug("record stored", slog.String("op", op), slog.String("key", key))
	return nil
}

func (s *Store) get(ctx context.Context, op, key string, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, storage.Wrap(op, err)
	}
	raw, ok := doc[key]
	if !ok || isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, storage.Wrap(op, err)
	}
	return true, nil
}

func (s *Store) remove(ctx context.Context, op, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return storage.Wrap(op, err)
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	if err := s.commit(doc); err != nil {
		return storage.Wrap(op, err)
	}
	s.log.Debug("record removed", slog.String("op", op), slog.String("key", key))
	return nil
}

// load читает файл. Отсутствующий или пустой файл - пустой документ.
func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return document{}, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

func (s *Store) commit(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return fsx.WriteFileAtomic(s.path, data, fileMode)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
