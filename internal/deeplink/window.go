package deeplink

import (
	"errors"
	"sync"
)

// События, которые получает окно приложения.
const (
	EventActivationCode      = "activation-code"
	EventActivationValidated = "activation-validated"
	EventFocusWindow         = "focus-window"
)

var (
	ErrWindowFull   = errors.New("window event buffer is full")
	ErrWindowClosed = errors.New("window is closed")
)

// Window - окно приложения, принимающее события.
type Window interface {
	Emit(event string, payload any) error
	Focus() error
}

// WindowLocator находит окно по метке.
type WindowLocator interface {
	Window(label string) (Window, bool)
}

// Event - событие, доставленное окну.
type Event struct {
	Name    string
	Payload any
}

// Code возвращает код активации, если событие его несёт.
func (e Event) Code() (string, bool) {
	if e.Name != EventActivationCode {
		return "", false
	}
	code, ok := e.Payload.(string)
	return code, ok && code != ""
}

// ChannelWindow доставляет события в буферизованный канал. Рассчитан на
// одного производителя и одного потребителя. При заполненном буфере событие
// отбрасывается с ошибкой ErrWindowFull, поэтому доставка не более одного раза.
type ChannelWindow struct {
	mu     sync.RWMutex
	ch     chan Event
	closed bool
}

// NewChannelWindow создаёт окно с буфером на buffer событий.
func NewChannelWindow(buffer int) *ChannelWindow {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelWindow{ch: make(chan Event, buffer)}
}

// Events возвращает канал событий для потребителя.
func (w *ChannelWindow) Events() <-chan Event {
	return w.ch
}

func (w *ChannelWindow) Emit(event string, payload any) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWindowClosed
	}
	select {
	case w.ch <- Event{Name: event, Payload: payload}:
		return nil
	default:
		return ErrWindowFull
	}
}

// Focus у канального окна ничего не делает.
func (w *ChannelWindow) Focus() error {
	return nil
}

// Close закрывает канал. Последующие Emit возвращают ErrWindowClosed.
func (w *ChannelWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.ch)
}

// Fanout рассылает события нескольким окнам.
type Fanout []Window

func (f Fanout) Emit(event string, payload any) error {
	var errs []error
	for _, w := range f {
		if err := w.Emit(event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Focus() error {
	var errs []error
	for _, w := range f {
		if err := w.Focus(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StaticLocator - неизменяемый набор окон по меткам.
type StaticLocator map[string]Window

func (l StaticLocator) Window(label string) (Window, bool) {
	w, ok := l[label]
	return w, ok
}
