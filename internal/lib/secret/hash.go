// Package secret реализует хеширование и проверку кодов активации.
//
// Hash создает bcrypt-хеш кода, чтобы mock API не держал коды в открытом виде.
// Compare сравнивает хеш с предъявленным кодом.
package secret

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch возвращается, если код не соответствует хешу.
var ErrMismatch = errors.New("secret mismatch")

// Normalize приводит код активации к каноническому виду: без пробелов по краям, в верхнем регистре.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Hash принимает код активации и возвращает bcrypt-хеш его канонического вида.
func Hash(code string) (string, error) {
	const op = "secret.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(Normalize(code)), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt-хеш с предъявленным кодом.
//
// Возвращает nil, если код соответствует хешу, иначе - ошибку, оборачивающую ErrMismatch.
func Compare(hash, code string) error {
	const op = "secret.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(Normalize(code))); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrMismatch, err)
	}
	return nil
}
