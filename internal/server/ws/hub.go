package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/polyboard/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub broadcasts leaderboard updates to connected WebSocket clients. It
// subscribes to the refresh channel on the signal bus and fans each payload
// out to every client.
type Hub struct {
	bus      domain.SignalBus
	channel  string
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a Hub that relays messages published on channel.
func NewHub(bus domain.SignalBus, channel string, logger *slog.Logger) *Hub {
	return &Hub{
		bus:     bus,
		channel: channel,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Run consumes the signal bus until ctx is canceled, broadcasting every
// payload to connected clients. It returns when the subscription closes.
func (h *Hub) Run(ctx context.Context) error {
	msgs, err := h.bus.Subscribe(ctx, h.channel)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "ws: hub started", slog.String("channel", h.channel))

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case payload, ok := <-msgs:
			if !ok {
				h.closeAll()
				return nil
			}
			h.broadcast(payload)
		}
	}
}

// ServeWS upgrades the HTTP connection and registers the client.
// GET /ws
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "ws: upgrade failed",
			slog.String("error", err.Error()),
		)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.InfoContext(r.Context(), "ws: client connected",
		slog.String("remote_addr", conn.RemoteAddr().String()),
		slog.Int("clients", n),
	)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow consumer, drop the update rather than block the hub.
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		c.conn.Close()
	}
}

// readPump drains client messages to process control frames and detect
// disconnects. Inbound data frames are discarded.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
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
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
