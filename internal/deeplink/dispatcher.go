package deeplink

import (
	"log/slog"

	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

// Dispatcher принимает ссылки от ОС и передаёт коды активации окну.
// Дальнейшая проверка кода его не касается.
type Dispatcher struct {
	scheme  string
	label   string
	locator WindowLocator
	log     *slog.Logger
}

// NewDispatcher создаёт диспетчер для схемы scheme и окна с меткой label.
func NewDispatcher(scheme, label string, locator WindowLocator, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		scheme:  scheme,
		label:   label,
		locator: locator,
		log:     log,
	}
}

// HandleURLs обрабатывает пачку ссылок. На каждую распознанную ссылку окну
// отправляется одно событие activation-code, после чего окно выводится на
// передний план. Ошибки окна только логируются. Возвращает число
// доставленных событий.
func (d *Dispatcher) HandleURLs(urls ...string) int {
	const op = "deeplink.HandleURLs"
	log := d.log.With(sl.Op(op))

	delivered := 0
	for _, raw := range urls {
		code, ok := Parse(raw, d.scheme)
		if !ok {
			log.Debug("ignoring url", slog.String("url", raw))
			continue
		}

		window, ok := d.locator.Window(d.label)
		if !ok {
			log.Warn("window not found", slog.String("window", d.label))
			continue
		}

		if err := window.Emit(EventActivationCode, code); err != nil {
			log.Error("failed to emit activation code", slog.String("code", code), sl.Err(err))
			continue
		}
		delivered++
		log.Info("activation code received", slog.String("code", code))

		if err := window.Focus(); err != nil {
			log.Warn("failed to focus window", sl.Err(err))
		}
	}
	return delivered
}
