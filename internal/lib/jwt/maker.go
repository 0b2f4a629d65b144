// Package jwt реализует выпуск и разбор токенов сессии.
//
// Maker выпускает и проверяет HS256-токены (используется локальным mock API).
// ExpiresAt читает срок действия токена без проверки подписи - клиенту ключ неизвестен,
// ему нужно только понять, не истекла ли сохранённая сессия.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для пользователя и сессии.
	GenerateToken(userID, sessionID string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	issuer    string
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		issuer:    Issuer,
	}
}
