package ws

import (
	"net"
	"sync"
	"testing"
	"time"

	fwebsocket "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// dialHub starts a Fiber listener with the hub mounted for a fixed user and
// returns an open client connection.
func dialHub(t *testing.T, hub *Hub, userID string) *fwebsocket.Conn {
	t.Helper()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws",
		hub.UpgradeMiddleware(),
		func(c *fiber.Ctx) error {
			c.Locals("user_id", userID)
			return c.Next()
		},
		hub.Handler(),
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := fwebsocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Registration happens on the server goroutine after the upgrade.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return conn
}

func TestPublishDeliversEvent(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "user-1")

	hub.Publish("user-1", "items_changed", fiber.Map{"title": "Milk"})

	var msg struct {
		Event  string `json:"event"`
		SentAt int64  `json:"sent_at"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "items_changed", msg.Event)
	require.NotZero(t, msg.SentAt)
}

// Publish is called from request goroutines, so several mutations by one user
// may push to the same connection at once; writes must be serialised per
// connection. Run with -race.
func TestPublishConcurrentWritersSameConn(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub, "user-1")

	// Drain server pushes so the write buffer never fills.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				hub.Publish("user-1", "scan_changed", fiber.Map{"seq": j})
			}
		}()
	}
	wg.Wait()
}

func TestPublishUnknownUserIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish("nobody", "items_changed", nil)
	require.Zero(t, hub.ClientCount("nobody"))
}
