package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-console/internal/event"
)

func startHub(t *testing.T) (*Hub, *event.InMemoryBus, *httptest.Server) {
	t.Helper()

	bus := event.NewBus()
	hub := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Serve(hub, w, r)
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, bus, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) event.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var e event.Event
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func TestHub_BroadcastsBusEvents(t *testing.T) {
	hub, bus, srv := startHub(t)
	conn := dial(t, srv, "")

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish(event.New(event.TypeSessionExpired, event.SessionExpired{Reason: "refresh_failed", LoginPath: "/login"}))

	got := readEvent(t, conn)
	assert.Equal(t, event.TypeSessionExpired, got.Type)
	assert.NotEmpty(t, got.ID)
	payload, ok := got.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/login", payload["loginPath"])
}

func TestHub_FiltersByType(t *testing.T) {
	hub, bus, srv := startHub(t)
	conn := dial(t, srv, "?types=category.changed")

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish(event.New(event.TypeCacheCleared, nil))
	bus.Publish(event.New(event.TypeCategoryChanged, event.Change{Action: "create", ID: "c-1"}))

	got := readEvent(t, conn)
	assert.Equal(t, event.TypeCategoryChanged, got.Type)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, _, srv := startHub(t)
	conn := dial(t, srv, "")

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StoppedHubRefusesClients(t *testing.T) {
	hub := NewHub(event.NewBus())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	assert.False(t, hub.Register(&Client{send: make(chan []byte, 1)}))
	assert.Equal(t, 0, hub.Len())
}

func TestParseTypes(t *testing.T) {
	assert.Nil(t, parseTypes(""))
	assert.Equal(t, []event.Type{"a.b", "c.d"}, parseTypes(" a.b, ,c.d "))
}
