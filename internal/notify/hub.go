package notify

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is what gets pushed to connected dashboard clients. Delivery is
// best-effort: no acknowledgment, no retry, no ordering across clients.
type Event struct {
	Type    string `json:"type"` // "notification" | "metrics-update"
	Payload any    `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to barbershop-scoped rooms.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*client]struct{}

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uint]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser dashboards connect cross-origin; the room is public data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and parks the connection in the shop's room
// until it closes. Clients never send booking actions over this channel;
// inbound frames are drained and discarded.
func (h *Hub) Serve(c *gin.Context, barbershopID uint) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan Event, 16),
	}

	h.mu.Lock()
	if h.rooms[barbershopID] == nil {
		h.rooms[barbershopID] = make(map[*client]struct{})
	}
	h.rooms[barbershopID][cl] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(cl)
	h.readLoop(barbershopID, cl)
}

func (h *Hub) writeLoop(cl *client) {
	for ev := range cl.send {
		if err := cl.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func (h *Hub) readLoop(barbershopID uint, cl *client) {
	defer func() {
		h.mu.Lock()
		if room, ok := h.rooms[barbershopID]; ok {
			delete(room, cl)
			if len(room) == 0 {
				delete(h.rooms, barbershopID)
			}
		}
		h.mu.Unlock()
		close(cl.send)
		_ = cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends to every client in the room, dropping for slow receivers.
func (h *Hub) Broadcast(barbershopID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for cl := range h.rooms[barbershopID] {
		select {
		case cl.send <- ev:
		default:
		}
	}
}
