package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"go.inspectdraw.org/draw/animation"
	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/draw"
)

// LiveMessage is sent to every websocket client. Type is one of "round",
// "plan", "frame", "result" or "reset".
type LiveMessage struct {
	Type    string                           `json:"type"`
	Round   *draw.RoundStatus                `json:"round,omitempty"`
	Plan    *draw.Plan                       `json:"plan,omitempty"`
	Frame   *animation.Frame[catalog.Entity] `json:"frame,omitempty"`
	Outcome *draw.Outcome                    `json:"outcome,omitempty"`
	Message string                           `json:"message,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan any
}

// Hub fans live messages out to the connected websocket clients. Slow
// clients are dropped rather than slowing down the draw.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool
	log     *slog.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: map[*client]bool{},
		log:     log,
	}
}

// Serve upgrades the request, sends hello and then every broadcast
// message until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, hello any) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn: conn,
		send: make(chan any, 64),
	}
	c.send <- hello

	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Debug("live client connected", "remote", r.RemoteAddr, "clients", n)

	go c.writePump()
	c.readPump()

	h.unregister(c)
	return nil
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("dropping slow live client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Announce broadcasts committed draws, including headless ones.
func (h *Hub) Announce(_ context.Context, out *draw.Outcome) error {
	h.Broadcast(LiveMessage{
		Type:    "result",
		Outcome: out,
		Message: out.Message(),
	})
	return nil
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump discards client messages; it returns when the connection
// fails or is closed.
func (c *client) readPump() {
	defer c.conn.Close()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
