// Package stream fans terminal events out to WebSocket clients.
package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"TradeMind/internal/logging"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 90 * time.Second
	pingInterval = 45 * time.Second
	clientBuffer = 256
)

// Message is the envelope every event is sent in.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	out  chan Message
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub tracks connected clients. Slow clients lose messages rather than
// blocking the broadcaster.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	snapshot func() any
	logger   zerolog.Logger
}

// NewHub creates a hub. snapshot, when set, is sent to each client on connect.
func NewHub(snapshot func() any) *Hub {
	return &Hub{
		clients:  make(map[*client]struct{}),
		snapshot: snapshot,
		logger:   logging.Component("stream"),
	}
}

// Broadcast queues an event for every client.
func (h *Hub) Broadcast(kind string, data any) {
	msg := Message{Type: kind, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.out <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// ServeHTTP upgrades the request and streams events until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &client{conn: conn, out: make(chan Message, clientBuffer), done: make(chan struct{})}
	if h.snapshot != nil {
		c.out <- Message{Type: "snapshot", Data: h.snapshot()}
	}
	h.add(c)
	defer h.remove(c)
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("client connected")

	go h.writeLoop(c)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("client disconnected")
}

func (h *Hub) writeLoop(c *client) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				h.remove(c)
				c.conn.Close()
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
