// Package models содержит доменные типы ядра активации: результаты проверки
// и активации кода, результаты оценки, статус пользователя и сохраняемые
// учётные записи устройства и сессии.
package models

// ActivationCode - непрозрачный код активации из deep link или ручного ввода.
// Локально проверяется только на пустоту, остальное решает удалённый сервис.
type ActivationCode = string

// AssessmentPreview - информационное превью до активации. Никогда не сохраняется.
type AssessmentPreview struct {
	Tier              string `json:"tier"`
	ArchetypeHint     string `json:"archetypeHint"`
	OverallScoreRange string `json:"overallScoreRange"`
}

// ValidationOutcome - результат проверки кода активации.
type ValidationOutcome struct {
	Valid           bool               `json:"valid"`
	SessionID       *string            `json:"sessionId,omitempty"`
	UserID          *string            `json:"userId,omitempty"`
	Product         *string            `json:"product,omitempty"`
	HasExistingUser *bool              `json:"hasExistingUser,omitempty"`
	Preview         *AssessmentPreview `json:"preview,omitempty"`
	Error           *string            `json:"error,omitempty"`
}

// InvalidValidation возвращает мягкий отказ с текстом ошибки.
func InvalidValidation(reason string) *ValidationOutcome {
	return &ValidationOutcome{Valid: false, Error: &reason}
}

// ClaimOutcome - результат активации кода за пользователем.
type ClaimOutcome struct {
	Success bool    `json:"success"`
	UserID  *string `json:"userId,omitempty"`
	Product *string `json:"product,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// FailedClaim возвращает мягкий отказ с текстом ошибки.
func FailedClaim(reason string) *ClaimOutcome {
	return &ClaimOutcome{Success: false, Error: &reason}
}

// Deref возвращает значение указателя или пустое значение типа.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Ptr возвращает указатель на копию значения.
func Ptr[T any](v T) *T {
	return &v
}
