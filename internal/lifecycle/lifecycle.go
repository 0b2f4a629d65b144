// Package lifecycle связывает диспетчер ссылок, клиент удалённого API и
// хранилище учётных данных в сценарии активации устройства и ведения сессии.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/jwt"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

var (
	ErrActivationInProgress = errors.New("activation already in progress for this code")
	ErrNotActivated         = errors.New("device is not activated")
	ErrNoSession            = errors.New("no active session")
	ErrTokenUnavailable     = errors.New("session token is not readable from this credential store")
	ErrEmptyUserID          = errors.New("user id is empty")
)

// ActivationAPI описывает вызовы активации удалённого сервиса.
type ActivationAPI interface {
	ValidateActivationKey(ctx context.Context, code string) (*models.ValidationOutcome, error)
	ClaimActivationKey(ctx context.Context, code, userID string) (*models.ClaimOutcome, error)
}

// StatusAPI описывает вызовы статуса и результатов.
type StatusAPI interface {
	FetchAssessmentResults(ctx context.Context, sessionID, token string) (*models.AssessmentResult, error)
	FetchUserStatus(ctx context.Context, token, userID string) (*models.UserStatus, error)
}

// API - весь удалённый сервис.
type API interface {
	ActivationAPI
	StatusAPI
}

// ClaimRequest - параметры активации кода.
type ClaimRequest struct {
	Code         string
	UserID       string
	RefreshToken string
	// Session сохраняется вместе с регистрацией, если задана.
	Session *models.SessionRecord
}

// State - восстановленное при запуске состояние.
type State struct {
	Registration *models.DeviceRegistration
	Session      *models.SessionRecord
	// Consistent - сессия принадлежит пользователю регистрации
	// (или одной из записей нет).
	Consistent bool
	// SessionExpired - токен сессии является JWT с истёкшим exp.
	SessionExpired bool
}

// Activated сообщает, есть ли регистрация устройства.
func (s *State) Activated() bool {
	return s != nil && s.Registration != nil
}

// Manager ведёт жизненный цикл активации и сессии.
type Manager struct {
	api   API
	store storage.CredentialStore
	gate  *Gate
	log   *slog.Logger
	now   func() time.Time

	validated *validatedCodes
}

// New создает Manager.
func New(api API, store storage.CredentialStore, log *slog.Logger) *Manager {
	return &Manager{
		api:       api,
		store:     store,
		gate:      NewGate(),
		log:       log,
		now:       time.Now,
		validated: newValidatedCodes(maxValidatedCodes),
	}
}

// Capabilities сообщает возможности хранилища учётных данных.
func (m *Manager) Capabilities() storage.Capabilities {
	return m.store.Capabilities()
}

// Validate проверяет код. Пока проверка или активация того же кода не
// завершена, повторный вызов возвращает ErrActivationInProgress.
func (m *Manager) Validate(ctx context.Context, code string) (*models.ValidationOutcome, error) {
	const op = "lifecycle.Validate"
	code = strings.TrimSpace(code)

	if !m.gate.TryAcquire(code) {
		return nil, fmt.Errorf("%s: %w", op, ErrActivationInProgress)
	}
	defer m.gate.Release(code)

	outcome, err := m.api.ValidateActivationKey(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if outcome.Valid {
		m.validated.remember(code, outcome)
	} else {
		m.validated.forget(code)
	}

	return outcome, nil
}

// Claim закрепляет код за пользователем и при успехе сохраняет регистрацию
// устройства (и сессию, если она передана).
//
// Пустой UserID заменяется пользователем из последней успешной проверки кода.
// Если сервер подтвердил активацию, но запись не удалась, возвращаются и
// результат, и ошибка хранилища.
func (m *Manager) Claim(ctx context.Context, req ClaimRequest) (*models.ClaimOutcome, error) {
	const op = "lifecycle.Claim"
	log := m.log.With(sl.Op(op))
	code := strings.TrimSpace(req.Code)

	if !m.gate.TryAcquire(code) {
		return nil, fmt.Errorf("%s: %w", op, ErrActivationInProgress)
	}
	defer m.gate.Release(code)

	validation := m.validated.lookup(code)

	userID := strings.TrimSpace(req.UserID)
	if userID == "" && validation != nil {
		userID = models.Deref(validation.UserID)
	}
	if userID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyUserID)
	}

	outcome, err := m.api.ClaimActivationKey(ctx, code, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !outcome.Success {
		m.validated.forget(code)
		log.Info("claim rejected", slog.String("code", code), slog.String("reason", models.Deref(outcome.Error)))
		return outcome, nil
	}

	reg := models.DeviceRegistration{
		ActivationCode: code,
		UserID:         firstNonEmpty(models.Deref(outcome.UserID), userID),
		Product:        models.Deref(outcome.Product),
		RefreshToken:   req.RefreshToken,
	}
	if reg.Product == "" && validation != nil {
		reg.Product = models.Deref(validation.Product)
	}

	if err := m.store.StoreDeviceRegistration(ctx, reg); err != nil {
		log.Error("claim succeeded but registration was not stored", slog.String("code", code), sl.Err(err))
		return outcome, fmt.Errorf("%s: %w", op, err)
	}

	if req.Session != nil {
		session := *req.Session
		if session.UserID == "" {
			session.UserID = reg.UserID
		}
		if err := m.store.StoreSession(ctx, session); err != nil {
			log.Error("claim succeeded but session was not stored", sl.Err(err))
			return outcome, fmt.Errorf("%s: %w", op, err)
		}
	}

	m.validated.forget(code)

	log.Info("device activated",
		slog.String("code", code),
		slog.String("user_id", reg.UserID),
		slog.String("product", reg.Product),
	)
	return outcome, nil
}

// Restore читает сохранённые записи при запуске. Несовпадение пользователя
// сессии и регистрации логируется, но ошибкой не считается.
func (m *Manager) Restore(ctx context.Context) (*State, error) {
	const op = "lifecycle.Restore"
	log := m.log.With(sl.Op(op))

	reg, err := m.store.GetDeviceRegistration(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	session, err := m.store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	state := &State{
		Registration: reg,
		Session:      session,
		Consistent:   session.ConsistentWith(reg),
	}
	if session != nil && session.HasToken() {
		state.SessionExpired = jwt.Expired(session.Token, m.now())
	}

	if !state.Consistent {
		log.Warn("session belongs to another user",
			slog.String("registration_user_id", reg.UserID),
			slog.String("session_user_id", session.UserID),
		)
	}
	log.Info("state restored",
		slog.Bool("activated", state.Activated()),
		slog.Bool("has_session", session != nil),
		slog.Bool("session_expired", state.SessionExpired),
	)
	return state, nil
}

// Registration возвращает регистрацию устройства или ErrNotActivated.
func (m *Manager) Registration(ctx context.Context) (*models.DeviceRegistration, error) {
	const op = "lifecycle.Registration"
	reg, err := m.store.GetDeviceRegistration(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if reg == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotActivated)
	}
	return reg, nil
}

// StoreSession сохраняет сессию.
func (m *Manager) StoreSession(ctx context.Context, session models.SessionRecord) error {
	const op = "lifecycle.StoreSession"
	if err := m.store.StoreSession(ctx, session); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Session возвращает сессию в проекции хранилища или nil.
func (m *Manager) Session(ctx context.Context) (*models.SessionRecord, error) {
	const op = "lifecycle.Session"
	session, err := m.store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// ClearSession удаляет сессию, регистрация остаётся.
func (m *Manager) ClearSession(ctx context.Context) error {
	const op = "lifecycle.ClearSession"
	if err := m.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SignOut удаляет сессию и регистрацию устройства. Повторный вызов успешен.
func (m *Manager) SignOut(ctx context.Context) error {
	const op = "lifecycle.SignOut"
	err := errors.Join(
		m.store.ClearSession(ctx),
		m.store.ClearDeviceRegistration(ctx),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("signed out", sl.Op(op))
	return nil
}

// Status запрашивает статус пользователя текущей сессии.
func (m *Manager) Status(ctx context.Context) (*models.UserStatus, error) {
	const op = "lifecycle.Status"
	session, err := m.sessionWithToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	status, err := m.api.FetchUserStatus(ctx, session.Token, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

// Results запрашивает результаты оценки. Пустой sessionID заменяется
// идентификатором текущей сессии.
func (m *Manager) Results(ctx context.Context, sessionID string) (*models.AssessmentResult, error) {
	const op = "lifecycle.Results"
	session, err := m.sessionWithToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sessionID == "" {
		sessionID = session.SessionID
	}
	result, err := m.api.FetchAssessmentResults(ctx, sessionID, session.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (m *Manager) sessionWithToken(ctx context.Context) (*models.SessionRecord, error) {
	session, err := m.store.GetSession(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	if !session.HasToken() {
		return nil, ErrTokenUnavailable
	}
	return session, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
