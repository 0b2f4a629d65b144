package events

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/deeplink"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
)

func TestHub_EmitToSubscribers(t *testing.T) {
	h := NewHub(4, sl.Discard())
	_, first, cancelFirst := h.Subscribe()
	defer cancelFirst()
	_, second, cancelSecond := h.Subscribe()
	defer cancelSecond()

	require.NoError(t, h.Emit(deeplink.EventActivationCode, "GH-1"))

	for _, ch := range []<-chan Message{first, second} {
		msg := <-ch
		assert.Equal(t, deeplink.EventActivationCode, msg.Event)
		assert.JSONEq(t, `"GH-1"`, string(msg.Data))
		assert.NotEmpty(t, msg.ID)
	}
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	h := NewHub(1, sl.Discard())
	_, ch, cancel := h.Subscribe()
	defer cancel()

	require.NoError(t, h.Emit(deeplink.EventActivationCode, "GH-1"))
	require.NoError(t, h.Emit(deeplink.EventActivationCode, "GH-2"))

	msg := <-ch
	assert.JSONEq(t, `"GH-1"`, string(msg.Data))
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %s", extra.Data)
	default:
	}
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	h := NewHub(1, sl.Discard())
	_, ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.Subscribers())

	cancel()
	cancel()
	assert.Zero(t, h.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	assert.NoError(t, h.Emit(deeplink.EventFocusWindow, nil))
}

func TestHub_Focus(t *testing.T) {
	h := NewHub(1, sl.Discard())
	_, ch, cancel := h.Subscribe()
	defer cancel()

	require.NoError(t, h.Focus())
	msg := <-ch
	assert.Equal(t, deeplink.EventFocusWindow, msg.Event)
	assert.Equal(t, "null", string(msg.Data))
}

func TestHub_EmitUnencodablePayload(t *testing.T) {
	h := NewHub(1, sl.Discard())
	assert.Error(t, h.Emit("bad", func() {}))
}

func TestHub_Handler(t *testing.T) {
	h := NewHub(4, sl.Discard())
	srv := httptest.NewServer(h.Handler(sl.Discard()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, h.Emit(deeplink.EventActivationCode, "GH-AB12-CD34"))

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "id: "))
	assert.Equal(t, "event: activation-code", lines[1])
	assert.Equal(t, `data: "GH-AB12-CD34"`, lines[2])
}
