package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 512

	clientBuffer    = 256
	broadcastBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session uuid.UUID
}

type message struct {
	session uuid.UUID
	data    []byte
}

// Hub fans engine events out to the WebSocket clients watching a session.
// Run owns the client set; every other method talks to it through channels.
type Hub struct {
	logger     *log.Logger
	sessions   map[uuid.UUID]map[*client]struct{}
	register   chan *client
	unregister chan *client
	drop       chan uuid.UUID
	broadcast  chan message
	done       chan struct{}
	running    atomic.Bool
}

// NewHub creates a hub. Until Start or Run is called, Publish and Disconnect do nothing
// and ServeWS refuses connections.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger:     logger,
		sessions:   make(map[uuid.UUID]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		drop:       make(chan uuid.UUID),
		broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Start marks the hub running and runs it in a new goroutine.
func (h *Hub) Start(ctx context.Context) {
	h.running.Store(true)
	go h.Run(ctx)
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer close(h.done)

	for {
		select {
		case c := <-h.register:
			if h.sessions[c.session] == nil {
				h.sessions[c.session] = make(map[*client]struct{})
			}
			h.sessions[c.session][c] = struct{}{}
			h.logger.Debug("client registered", "session", c.session, "clients", len(h.sessions[c.session]))

		case c := <-h.unregister:
			h.remove(c)

		case id := <-h.drop:
			for c := range h.sessions[id] {
				h.remove(c)
			}

		case msg := <-h.broadcast:
			for c := range h.sessions[msg.session] {
				select {
				case c.send <- msg.data:
				default:
					h.logger.Warn("client too slow, disconnecting", "session", msg.session)
					h.remove(c)
				}
			}

		case <-ctx.Done():
			for _, clients := range h.sessions {
				for c := range clients {
					h.remove(c)
				}
			}
			return
		}
	}
}

// remove closes c's send channel; its write pump then closes the connection.
func (h *Hub) remove(c *client) {
	clients, ok := h.sessions[c.session]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.session)
	}
}

// Running reports whether Run has been started.
func (h *Hub) Running() bool {
	return h.running.Load()
}

// Publish queues env for every client of its session. Messages are dropped when
// the hub is saturated or stopped; watchers can resync from the state endpoint.
func (h *Hub) Publish(id uuid.UUID, env envelope) {
	if !h.Running() {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("cannot encode event", "session", id, "err", err)
		return
	}

	select {
	case h.broadcast <- message{session: id, data: data}:
	case <-h.done:
	default:
		h.logger.Warn("event dropped, hub saturated", "session", id)
	}
}

// Disconnect closes every client watching id.
func (h *Hub) Disconnect(id uuid.UUID) {
	if !h.Running() {
		return
	}
	select {
	case h.drop <- id:
	case <-h.done:
	}
}

// ServeWS upgrades the request and subscribes the connection to id. hello is
// the first frame the client receives. Pumps start only once the hub holds the
// client, so anything published after the client has read hello reaches it.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id uuid.UUID, hello []byte) {
	if !h.Running() {
		http.Error(w, "event hub not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", id, "err", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, clientBuffer), session: id}
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards client frames and detects disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // A failed deadline surfaces as a read error below
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket closed", "session", c.session, "err", err)
			}
			return
		}
	}
}

// writePump sends queued frames, one JSON document each, and keeps the
// connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			//nolint:errcheck // A failed deadline surfaces as a write error below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint:errcheck // Best-effort close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // A failed deadline surfaces as a write error below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
