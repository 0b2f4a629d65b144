package lifecycle

import (
	"context"
	"sync"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
	"github.com/magabrotheeeer/goodhang-desktop/internal/storage"
)

// MockAPI - мок удалённого сервиса
type MockAPI struct {
	ValidateFunc func(ctx context.Context, code string) (*models.ValidationOutcome, error)
	ClaimFunc    func(ctx context.Context, code, userID string) (*models.ClaimOutcome, error)
	ResultsFunc  func(ctx context.Context, sessionID, token string) (*models.AssessmentResult, error)
	StatusFunc   func(ctx context.Context, token, userID string) (*models.UserStatus, error)
}

func (m *MockAPI) ValidateActivationKey(ctx context.Context, code string) (*models.ValidationOutcome, error) {
	return m.ValidateFunc(ctx, code)
}

func (m *MockAPI) ClaimActivationKey(ctx context.Context, code, userID string) (*models.ClaimOutcome, error) {
	return m.ClaimFunc(ctx, code, userID)
}

func (m *MockAPI) FetchAssessmentResults(ctx context.Context, sessionID, token string) (*models.AssessmentResult, error) {
	return m.ResultsFunc(ctx, sessionID, token)
}

func (m *MockAPI) FetchUserStatus(ctx context.Context, token, userID string) (*models.UserStatus, error) {
	return m.StatusFunc(ctx, token, userID)
}

// memStore - хранилище в памяти с настраиваемой проекцией и ошибками
type memStore struct {
	mu        sync.Mutex
	reg       *models.DeviceRegistration
	session   *models.SessionRecord
	readBack  bool
	failWrite error
	failRead  error
}

func newMemStore() *memStore {
	return &memStore{readBack: true}
}

func (s *memStore) StoreDeviceRegistration(_ context.Context, reg models.DeviceRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return storage.Wrap("memStore.StoreDeviceRegistration", s.failWrite)
	}
	s.reg = &reg
	return nil
}

func (s *memStore) GetDeviceRegistration(_ context.Context) (*models.DeviceRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return nil, storage.Wrap("memStore.GetDeviceRegistration", s.failRead)
	}
	if s.reg == nil {
		return nil, nil
	}
	reg := *s.reg
	return &reg, nil
}

func (s *memStore) ClearDeviceRegistration(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = nil
	return nil
}

func (s *memStore) StoreSession(_ context.Context, session models.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		return storage.Wrap("memStore.StoreSession", s.failWrite)
	}
	s.session = &session
	return nil
}

func (s *memStore) GetSession(_ context.Context) (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead != nil {
		return nil, storage.Wrap("memStore.GetSession", s.failRead)
	}
	if s.session == nil {
		return nil, nil
	}
	session := *s.session
	if !s.readBack {
		session = session.Projection()
	}
	return &session, nil
}

func (s *memStore) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *memStore) Capabilities() storage.Capabilities {
	return storage.Capabilities{SessionTokenReadBack: s.readBack}
}
