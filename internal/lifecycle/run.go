package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/goodhang-desktop/internal/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

// ValidatedFunc получает итог проверки кода, пришедшего по ссылке.
type ValidatedFunc func(code string, outcome *models.ValidationOutcome, err error)

// Run читает события окна и проверяет каждый пришедший код. Код, проверка
// которого уже идёт, пропускается. Возвращается после отмены ctx или
// закрытия канала, дождавшись начатых проверок.
func (m *Manager) Run(ctx context.Context, events <-chan deeplink.Event, onValidated ValidatedFunc) {
	const op = "lifecycle.Run"
	log := m.log.With(sl.Op(op))

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping activation worker")
			return
		case ev, ok := <-events:
			if !ok {
				log.Info("event channel closed")
				return
			}
			code, ok := ev.Code()
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.validateFromLink(ctx, code, onValidated)
			}()
		}
	}
}

func (m *Manager) validateFromLink(ctx context.Context, code string, onValidated ValidatedFunc) {
	log := m.log.With(sl.Op("lifecycle.validateFromLink"), slog.String("code", code))

	outcome, err := m.Validate(ctx, code)
	if errors.Is(err, ErrActivationInProgress) {
		log.Debug("duplicate activation code skipped")
		return
	}
	if err != nil {
		log.Error("failed to validate activation code", sl.Err(err))
	}
	if onValidated != nil {
		onValidated(code, outcome, err)
	}
}
