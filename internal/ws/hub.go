package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Publisher pushes realtime events to every connected client of one user.
// Delivery is best-effort: a client that misses an event re-syncs over HTTP.
type Publisher interface {
	Publish(userID string, event string, payload any)
}

type event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
	SentAt  int64  `json:"sent_at"`
}

// client serialises writes to one connection: the websocket library forbids
// concurrent writers on a single conn.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*client]bool),
	}
}

// UpgradeMiddleware rejects plain HTTP requests on the websocket route.
func (h *Hub) UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Handler upgrades the connection and keeps it registered until the client
// goes away. The auth middleware must have run first.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("user_id").(string)
		if !ok || userID == "" {
			_ = conn.Close()
			return
		}

		cl := h.register(userID, conn)
		defer h.unregister(userID, cl)

		// Drain client frames; we only push.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

func (h *Hub) register(userID string, conn *websocket.Conn) *client {
	cl := &client{conn: conn}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connections[userID] == nil {
		h.connections[userID] = make(map[*client]bool)
	}
	h.connections[userID][cl] = true
	log.Printf("websocket client connected for user %s", userID)
	return cl
}

func (h *Hub) unregister(userID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections[userID], cl)
	if len(h.connections[userID]) == 0 {
		delete(h.connections, userID)
	}
	log.Printf("websocket client disconnected for user %s", userID)
}

// ClientCount reports the open connections for one user.
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID])
}

func (h *Hub) Publish(userID string, eventName string, payload any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.connections[userID]))
	for cl := range h.connections[userID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	msg := event{
		Event:   eventName,
		Payload: payload,
		SentAt:  time.Now().Unix(),
	}

	for _, cl := range clients {
		if err := cl.writeJSON(msg); err != nil {
			log.Printf("failed to push %s to user %s: %v", eventName, userID, err)
		}
	}
}
