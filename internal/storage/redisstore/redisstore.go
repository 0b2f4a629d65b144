// Package redisstore хранит учётные данные в redis. Используется, когда
// несколько процессов на одной машине должны видеть одну регистрацию.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/goodhang-desktop/internal/config"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

// Store - хранилище с ключами <namespace>:device_registration и <namespace>:session.
// Записи не истекают.
type Store struct {
	Db        *redis.Client
	namespace string
	log       *slog.Logger
}

// InitServer подключается к redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection, namespace string, log *slog.Logger) (*Store, error) {
	const op = "redisstore.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return New(db, namespace, log), nil
}

// New оборачивает готовый клиент.
func New(db *redis.Client, namespace string, log *slog.Logger) *Store {
	return &Store{Db: db, namespace: namespace, log: log}
}

// Close закрывает соединение с redis.
func (s *Store) Close() error {
	return s.Db.Close()
}

func (s *Store) Capabilities() storage.Capabilities {
	return storage.Capabilities{SessionTokenReadBack: true}
}

func (s *Store) StoreDeviceRegistration(ctx context.Context, reg models.DeviceRegistration) error {
	return s.set(ctx, "redisstore.StoreDeviceRegistration", storage.KeyDeviceRegistration, reg)
}

func (s *Store) GetDeviceRegistration(ctx context.Context) (*models.DeviceRegistration, error) {
	var reg models.DeviceRegistration
	found, err := s.get(ctx, "redisstore.GetDeviceRegistration", storage.KeyDeviceRegistration, &reg)
	if err != nil || !found {
		return nil, err
	}
	return &reg, nil
}

func (s *Store) ClearDeviceRegistration(ctx context.Context) error {
	return s.invalidate(ctx, "redisstore.ClearDeviceRegistration", storage.KeyDeviceRegistration)
}

func (s *Store) StoreSession(ctx context.Context, session models.SessionRecord) error {
	return s.set(ctx, "redisstore.StoreSession", storage.KeySession, session)
}

func (s *Store) GetSession(ctx context.Context) (*models.SessionRecord, error) {
	var session models.SessionRecord
	found, err := s.get(ctx, "redisstore.GetSession", storage.KeySession, &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	return s.invalidate(ctx, "redisstore.ClearSession", storage.KeySession)
}

// Key возвращает полное имя ключа записи.
func (s *Store) Key(name string) string {
	return s.namespace + ":" + name
}

func (s *Store) get(ctx context.Context, op, name string, result any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	val, err := s.Db.Get(ctx, s.Key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, storage.Wrap(op, err)
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, storage.Wrap(op, err)
	}
	return true, nil
}

func (s *Store) set(ctx context.Context, op, name string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	jsonData, err := json.Marshal(value)
	if err != nil {
		return storage.Wrap(op, err)
	}
	if err := s.Db.Set(ctx, s.Key(name), jsonData, 0).Err(); err != nil {
		return storage.Wrap(op, err)
	}
	s.log.Debug("record stored", slog.String("op", op), slog.String("key", s.Key(name)))
	return nil
}

func (s *Store) invalidate(ctx context.Context, op, name string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Del(ctx, s.Key(name)).Err(); err != nil {
		return storage.Wrap(op, err)
	}
	return nil
}
