package lifecycle

import (
	"sync"

	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// maxValidatedCodes ограничивает число запомненных успешных проверок.
const maxValidatedCodes = 32

// validatedCodes помнит последние успешные проверки кодов до их активации.
// При переполнении вытесняется самая старая запись.
type validatedCodes struct {
	mu      sync.Mutex
	limit   int
	entries map[string]*models.ValidationOutcome
	order   []string
}

func newValidatedCodes(limit int) *validatedCodes {
	return &validatedCodes{
		limit:   limit,
		entries: make(map[string]*models.ValidationOutcome),
	}
}

func (v *validatedCodes) remember(code string, outcome *models.ValidationOutcome) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.entries[code]; ok {
		v.removeLocked(code)
	}
	v.entries[code] = outcome
	v.order = append(v.order, code)
	for len(v.order) > v.limit {
		oldest := v.order[0]
		v.order = v.order[1:]
		delete(v.entries, oldest)
	}
}

func (v *validatedCodes) lookup(code string) *models.ValidationOutcome {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.entries[code]
}

func (v *validatedCodes) forget(code string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeLocked(code)
}

func (v *validatedCodes) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

func (v *validatedCodes) removeLocked(code string) {
	if _, ok := v.entries[code]; !ok {
		return
	}
	delete(v.entries, code)
	for i, c := range v.order {
		if c == code {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
}
