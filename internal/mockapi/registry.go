// Package mockapi - локальная замена удалённого сервиса для разработки.
// Реализует эндпоинты активации, результатов и статуса в памяти процесса.
package mockapi

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/secret"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

var (
	ErrUnknownCode    = errors.New("invalid activation code")
	ErrAlreadyClaimed = errors.New("code already claimed")
	ErrUnknownUser    = errors.New("user not found")
	ErrNoResults      = errors.New("results not found")
)

const defaultProduct = "goodhang"

// Seed - код активации, выпускаемый при запуске.
type Seed struct {
	Code    string
	Product string
	Tier    string
}

type codeEntry struct {
	hash      string
	product   string
	tier      string
	sessionID string
	claimedBy string
}

type userRecord struct {
	id        string
	product   string
	tier      string
	sessionID string
}

// Registry хранит выпущенные коды (только bcrypt-хеши), пользователей и
// результаты оценок.
type Registry struct {
	mu      sync.Mutex
	codes   []*codeEntry
	users   map[string]*userRecord
	results map[string]*models.AssessmentResult
}

// NewRegistry создает реестр и выпускает коды из seeds.
func NewRegistry(seeds ...Seed) (*Registry, error) {
	r := &Registry{
		users:   make(map[string]*userRecord),
		results: make(map[string]*models.AssessmentResult),
	}
	for _, s := range seeds {
		if err := r.Issue(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Issue выпускает новый код.
func (r *Registry) Issue(s Seed) error {
	const op = "mockapi.Issue"
	hash, err := secret.Hash(s.Code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	product := s.Product
	if product == "" {
		product = defaultProduct
	}
	tier := s.Tier
	if tier == "" {
		tier = "core"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, &codeEntry{
		hash:      hash,
		product:   product,
		tier:      tier,
		sessionID: uuid.NewString(),
	})
	return nil
}

// Validate проверяет код, не меняя его состояния.
func (r *Registry) Validate(code string) (*models.ValidationOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.find(code)
	if entry == nil {
		return nil, ErrUnknownCode
	}
	if entry.claimedBy != "" {
		return nil, ErrAlreadyClaimed
	}
	return &models.ValidationOutcome{
		Valid:           true,
		SessionID:       models.Ptr(entry.sessionID),
		Product:         models.Ptr(entry.product),
		HasExistingUser: models.Ptr(false),
		Preview: &models.AssessmentPreview{
			Tier:              entry.tier,
			ArchetypeHint:     archetypeFor(entry.tier),
			OverallScoreRange: scoreRangeFor(entry.tier),
		},
	}, nil
}

// Claim закрепляет код за пользователем и создаёт результаты его оценки.
func (r *Registry) Claim(code, userID string) (*models.ClaimOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.find(code)
	if entry == nil {
		return nil, ErrUnknownCode
	}
	if entry.claimedBy != "" {
		return nil, ErrAlreadyClaimed
	}
	entry.claimedBy = userID

	r.users[userID] = &userRecord{
		id:        userID,
		product:   entry.product,
		tier:      entry.tier,
		sessionID: entry.sessionID,
	}
	tier := entry.tier
	archetype := archetypeFor(entry.tier)
	r.results[entry.sessionID] = &models.AssessmentResult{
		SessionID:    entry.sessionID,
		UserID:       userID,
		OverallScore: scoreFor(entry.tier),
		TraitAssessment: models.TraitAssessment{
			Archetype: &archetype,
			Tier:      &tier,
		},
	}

	return &models.ClaimOutcome{
		Success: true,
		UserID:  models.Ptr(userID),
		Product: models.Ptr(entry.product),
	}, nil
}

// PutResult добавляет или заменяет результаты сессии.
func (r *Registry) PutResult(result models.AssessmentResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.SessionID] = &result
}

// Result возвращает результаты сессии.
func (r *Registry) Result(sessionID string) (*models.AssessmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[sessionID]
	if !ok {
		return nil, ErrNoResults
	}
	copied := *result
	return &copied, nil
}

// Status собирает статус пользователя.
func (r *Registry) Status(userID string) (*models.UserStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUnknownUser
	}

	status := &models.UserStatus{
		Found:             true,
		User:              &models.UserInfo{ID: user.id},
		Contexts:          models.ContextsInfo{Available: []string{}},
		RecommendedAction: "view_results",
	}
	switch user.product {
	case "founder_os":
		status.Products.FounderOS = models.FounderOSProduct{
			Enabled:  true,
			Sculptor: &models.SculptorStatus{Status: "not_started"},
		}
		status.RecommendedAction = "start_sculptor"
	case "voice_os":
		status.Products.VoiceOS = models.VoiceOSProduct{Enabled: true}
		status.RecommendedAction = "open_voice_os"
	default:
		score := scoreFor(user.tier)
		status.Products.GoodHang = models.GoodHangProduct{
			Enabled: true,
			Assessment: &models.GoodHangAssessment{
				Completed:    true,
				Status:       "completed",
				Tier:         models.Ptr(user.tier),
				OverallScore: &score,
				SessionID:    models.Ptr(user.sessionID),
			},
		}
	}
	return status, nil
}

func (r *Registry) find(code string) *codeEntry {
	for _, entry := range r.codes {
		if secret.Compare(entry.hash, code) == nil {
			return entry
		}
	}
	return nil
}

func archetypeFor(tier string) string {
	switch tier {
	case "top":
		return "The Connector"
	case "solid":
		return "The Steady Friend"
	default:
		return "The Explorer"
	}
}

func scoreRangeFor(tier string) string {
	switch tier {
	case "top":
		return "85-100"
	case "solid":
		return "70-84"
	default:
		return "50-69"
	}
}

func scoreFor(tier string) float64 {
	switch tier {
	case "top":
		return 91
	case "solid":
		return 77
	default:
		return 62
	}
}
