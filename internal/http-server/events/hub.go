// Package events рассылает события окна приложения подписчикам
// по Server-Sent Events. Hub реализует deeplink.Window.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/goodhang-desktop/internal/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

// Message - одно событие потока.
type Message struct {
	ID    string
	Event string
	Data  json.RawMessage
}

// Hub хранит подписчиков и раздаёт им события. Медленный подписчик теряет
// события, которые не поместились в его буфер; остальные их получают.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]chan Message
	buffer int
	log    *slog.Logger
}

// NewHub создает Hub с буфером buffer сообщений на подписчика.
func NewHub(buffer int, log *slog.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]chan Message),
		buffer: buffer,
		log:    log,
	}
}

// Emit отправляет событие всем подписчикам.
func (h *Hub) Emit(event string, payload any) error {
	const op = "events.Emit"
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := Message{ID: uuid.NewString(), Event: event, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.log.Warn("subscriber buffer is full, event dropped",
				slog.String("op", op),
				slog.String("subscriber", id),
				slog.String("event", event),
			)
		}
	}
	return nil
}

// Focus просит подписчиков вывести окно на передний план.
func (h *Hub) Focus() error {
	return h.Emit(deeplink.EventFocusWindow, nil)
}

// Subscribe регистрирует подписчика. cancel снимает подписку и закрывает канал.
func (h *Hub) Subscribe() (id string, ch <-chan Message, cancel func()) {
	id = uuid.NewString()
	c := make(chan Message, h.buffer)

	h.mu.Lock()
	h.subs[id] = c
	h.mu.Unlock()

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(c)
		})
	}
	return id, c, cancel
}

// Subscribers возвращает число подписчиков.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler отдаёт поток событий до отключения клиента.
func (h *Hub) Handler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "events.Handler"
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		flusher, ok := w.(http.Flusher)
		if !ok {
			log.Error("streaming is not supported by response writer")
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		// поток живёт дольше таймаута записи сервера
		_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

		id, messages, cancel := h.Subscribe()
		defer cancel()
		log.Info("subscriber connected", slog.String("subscriber", id))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				log.Info("subscriber disconnected", slog.String("subscriber", id))
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if err := writeMessage(w, msg); err != nil {
					log.Warn("failed to write event", sl.Err(err))
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeMessage(w http.ResponseWriter, msg Message) error {
	_, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", msg.ID, msg.Event, msg.Data)
	return err
}
