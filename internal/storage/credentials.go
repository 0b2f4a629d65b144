// Package storage определяет контракт хранилища учётных данных устройства:
// регистрации устройства и текущей сессии.
//
// Реализации отличаются только носителем (файл, системное хранилище секретов, redis),
// но не семантикой: отсутствие записи - (nil, nil), удаление отсутствующей записи
// успешно, любая ошибка носителя или сериализации оборачивает ErrStorage.
// Каждая запись считается завершённой только после фиксации на носителе.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// Имена записей. Файловое хранилище использует их как ключи верхнего уровня.
const (
	KeyDeviceRegistration = "device_registration"
	KeySession            = "session"
)

// ErrStorage - сбой носителя или сериализации. Отличается от «запись не найдена».
var ErrStorage = errors.New("credential storage failure")

// Capabilities описывает возможности конкретного бэкенда.
type Capabilities struct {
	// SessionTokenReadBack - возвращает ли GetSession токен сессии.
	// Если false, GetSession отдаёт проекцию SessionRecord.Projection().
	SessionTokenReadBack bool
}

// CredentialStore - контракт хранилища учётных данных.
type CredentialStore interface {
	// StoreDeviceRegistration сохраняет регистрацию устройства, перезаписывая прежнюю.
	StoreDeviceRegistration(ctx context.Context, reg models.DeviceRegistration) error
	// GetDeviceRegistration возвращает регистрацию или nil, если её нет.
	GetDeviceRegistration(ctx context.Context) (*models.DeviceRegistration, error)
	// ClearDeviceRegistration удаляет регистрацию. Повторный вызов успешен.
	ClearDeviceRegistration(ctx context.Context) error

	// StoreSession сохраняет сессию, перезаписывая прежнюю.
	StoreSession(ctx context.Context, session models.SessionRecord) error
	// GetSession возвращает сессию (в проекции бэкенда) или nil, если её нет.
	GetSession(ctx context.Context) (*models.SessionRecord, error)
	// ClearSession удаляет сессию. Повторный вызов успешен.
	ClearSession(ctx context.Context) error

	// Capabilities сообщает возможности бэкенда.
	Capabilities() Capabilities
}

// Wrap оборачивает ошибку носителя в ErrStorage с именем операции.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsStorageError сообщает, является ли ошибка сбоем хранилища.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
