package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/slotbook/internal/infrastructure/config"
	"github.com/nerrad567/slotbook/internal/infrastructure/logging"
	"github.com/nerrad567/slotbook/internal/slot"
)

// Event types pushed to subscribers.
const (
	// EventTypeRefresh tells viewers to re-fetch the slot list.
	EventTypeRefresh = "refresh"

	// EventTypeNewBooking carries display details for a fresh booking.
	EventTypeNewBooking = "new_booking"

	// wsSendBufferSize is the per-client outbound message buffer size.
	wsSendBufferSize = 256
)

// Event is the JSON shape pushed to WebSocket subscribers.
//
// refresh events carry no data. new_booking events carry the booking
// details for display (a toast, a board update); they are informational,
// not authoritative state.
type Event struct {
	Type string              `json:"type"`
	Data *slot.BookingNotice `json:"data,omitempty"`
}

// EventPublisher mirrors broadcast events onto a secondary channel.
// The MQTT client satisfies this; delivery is best-effort there too.
type EventPublisher interface {
	PublishEvent(payload []byte) error
}

// Hub maintains the set of connected WebSocket viewers and fans out change
// events to all of them.
//
// Every connected client receives every event - there is no subscription
// filtering, because the event vocabulary is two entries deep. Delivery to
// each client is attempted independently; a client that has gone away or
// fallen behind is skipped without affecting the others.
type Hub struct {
	cfg       config.WebSocketConfig
	logger    *logging.Logger
	publisher EventPublisher
	clients   map[*WSClient]struct{}
	mu        sync.RWMutex
}

// WSClient represents a connected WebSocket viewer.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new notification hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[*WSClient]struct{}),
	}
}

// SetPublisher sets an optional secondary publisher that receives a copy of
// every broadcast event. Must be called before the hub starts serving
// broadcasts; the field is read without synchronisation afterwards.
func (h *Hub) SetPublisher(p EventPublisher) {
	h.publisher = p
}

// Run starts the hub's main loop. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client to the hub.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", h.ClientCount())
}

// Unregister removes a client from the hub. Safe to call for a client that
// was never registered or was already removed; only the goroutine that
// actually removes the client closes its send channel, preventing
// double-close panics during shutdown.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("websocket client disconnected", "clients", h.ClientCount())
}

// SlotsChanged implements slot.Notifier by broadcasting a refresh event.
func (h *Hub) SlotsChanged() {
	h.Broadcast(Event{Type: EventTypeRefresh})
}

// SlotBooked implements slot.Notifier by broadcasting a new_booking event.
func (h *Hub) SlotBooked(n slot.BookingNotice) {
	h.Broadcast(Event{Type: EventTypeNewBooking, Data: &n})
}

// Broadcast delivers an event to every connected client, best-effort.
//
// The client set is snapshotted under the hub lock, then released before
// any sends, so a slow client cannot block registration or removal.
// Failures - closed channel, full buffer - are swallowed: notification is
// advisory and viewers recover by re-fetching the slot list.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal broadcast event", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.trySend(data)
	}
	h.logger.Debug("broadcast sent", "type", event.Type, "recipients", len(clients))

	if h.publisher != nil {
		if err := h.publisher.PublishEvent(data); err != nil {
			// Mirror channel is just as advisory as the primary.
			h.logger.Debug("event mirror publish failed", "error", err)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// handleWebSocket upgrades the HTTP connection and registers the client
// with the hub. The endpoint is open: viewers connect anonymously to watch
// for changes, and the server pushes events until they disconnect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	s.hub.Register(client)

	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)
}

// readPump reads from the WebSocket connection purely for liveness.
//
// Subscribers send no meaningful application data; whatever arrives is
// discarded after resetting the read deadline. A read error means the peer
// went away, at which point the client is pruned from the hub.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline (keeps the connection
		// alive even if the browser doesn't answer protocol-level pings).
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	}
}

// writePump writes queued events to the WebSocket connection and sends
// periodic pings for disconnect detection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend attempts to queue data for the client without blocking.
// It silently handles closed channels (client disconnected during
// broadcast) and full buffers (slow client).
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}
