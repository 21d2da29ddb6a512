package notify

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/1", func(c *gin.Context) { hub.Serve(c, 1) })
	r.GET("/ws/2", func(c *gin.Context) { hub.Serve(c, 2) })

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := hubServer(t, hub)

	conn := dial(t, srv, "/ws/1")

	// Registration races the broadcast; give Serve a beat to park the client.
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(1, Event{Type: "notification", Payload: map[string]any{"event": "appointment_created"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))

	assert.Equal(t, "notification", ev.Type)
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	srv := hubServer(t, hub)

	room1 := dial(t, srv, "/ws/1")
	room2 := dial(t, srv, "/ws/2")
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(2, Event{Type: "metrics-update"})

	room2.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, room2.ReadJSON(&ev))
	assert.Equal(t, "metrics-update", ev.Type)

	// Room 1 sees nothing.
	room1.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var none Event
	err := room1.ReadJSON(&none)
	assert.Error(t, err)
}

func TestBroadcastToEmptyRoomIsANoop(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(99, Event{Type: "notification"})
}
