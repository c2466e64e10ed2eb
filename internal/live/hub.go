package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"Cignito/internal/cache"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// MessageTypeRevalidate is the only message the hub sends
const MessageTypeRevalidate = "revalidate"

// Message is the JSON frame pushed to websocket clients
type Message struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub fans revalidation events out to connected websocket clients and drops
// the cache keys registered for the affected paths.
type Hub struct {
	cache      cache.Cache
	logger     *slog.Logger
	clients    map[string]*client
	invalidate map[string][]string
	origins    map[string]bool
	upgrader   websocket.Upgrader
	mu         sync.RWMutex
}

// NewHub creates a hub. c may be nil when no cache keys need invalidation.
func NewHub(c cache.Cache, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		cache:      c,
		logger:     logger,
		clients:    make(map[string]*client),
		invalidate: make(map[string][]string),
		origins:    make(map[string]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	h.upgrader.CheckOrigin = h.checkOrigin
	return h
}

// AllowOrigins lets browsers on the given origins open a socket.
// Same-origin pages are always accepted and "*" accepts any origin.
func (h *Hub) AllowOrigins(origins ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range origins {
		h.origins[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
}

// Non-browser clients send no Origin header and are accepted
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	h.mu.RLock()
	allowed := h.origins["*"] || h.origins[strings.ToLower(origin)]
	h.mu.RUnlock()
	if allowed {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.logger.Warn("rejected websocket origin", "origin", origin)
	return false
}

// InvalidateOn registers cache keys to delete whenever path is revalidated.
// Keys registered on "*" are deleted on every revalidation.
func (h *Hub) InvalidateOn(path string, keys ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.invalidate[path] = append(h.invalidate[path], keys...)
}

// Revalidate implements Revalidator
func (h *Hub) Revalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	h.mu.RLock()
	keys := append([]string(nil), h.invalidate["*"]...)
	for _, p := range paths {
		keys = append(keys, h.invalidate[p]...)
	}
	h.mu.RUnlock()

	if h.cache != nil && len(keys) > 0 {
		if err := h.cache.Delete(ctx, keys...); err != nil {
			h.logger.Warn("failed to invalidate cache keys",
				"error", err,
				"keys", keys)
		}
	}

	payload, err := json.Marshal(Message{Type: MessageTypeRevalidate, Paths: paths})
	if err != nil {
		h.logger.Error("failed to encode revalidate message", "error", err)
		return
	}
	h.broadcast(payload)
	revalidationsTotal.Inc()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer: disconnect rather than block publishers
			h.logger.Warn("dropping slow websocket client", "client", id)
			close(c.send)
			delete(h.clients, id)
			droppedClientsTotal.Inc()
			connectedClients.Dec()
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	connectedClients.Inc()
	h.logger.Debug("websocket client connected", "client", c.id)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
		connectedClients.Dec()
	}
	h.mu.Unlock()
	h.logger.Debug("websocket client disconnected", "client", c.id)
}

// ServeWS upgrades the request and streams revalidation messages until the
// client disconnects. Messages sent by clients are ignored.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
