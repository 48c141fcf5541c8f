package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/telemetry"
)

const controlWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard may be served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub owns the set of live fan-out subscribers. Broadcasts are synchronous
// and best-effort: a failed send drops the client, it never surfaces to the
// caller that triggered the broadcast.
type Hub struct {
	log      *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates a hub whose liveness sweep runs on the given interval.
func NewHub(interval time.Duration, log *zap.Logger) *Hub {
	return &Hub{
		log:      log,
		interval: interval,
		clients:  make(map[*Client]struct{}),
	}
}

// HandleWS upgrades an HTTP request to a websocket connection, registers
// the subscriber and serves its read loop until the connection dies.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.register(conn)
	h.readLoop(client)
}

// register adds a connection to the subscriber set and confirms it.
func (h *Hub) register(conn Conn) *Client {
	client := newClient(conn)

	conn.SetPongHandler(func(string) error {
		client.markAlive()
		return nil
	})

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	telemetry.ConnectedClients.Set(float64(count))

	h.log.Info("Websocket connection established", zap.Int("clients", count))

	if err := client.send(websocket.TextMessage, h.message(TypeConnectionEstablished, map[string]string{
		"message": "Connected to PixelProbe analytics stream",
	})); err != nil {
		h.log.Warn("Failed to send connection confirmation", zap.Error(err))
		h.drop(client)
	}

	return client
}

// readLoop consumes client frames until the connection closes. Subscribe
// messages are acknowledged and their filters recorded; malformed frames
// are logged and skipped.
func (h *Hub) readLoop(client *Client) {
	defer h.drop(client)

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			h.log.Debug("Websocket connection closed", zap.Error(err))
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.log.Warn("Ignoring malformed websocket message", zap.Error(err))
			continue
		}

		if msg.Type == "subscribe" {
			client.setFilters(msg.Filters)
			h.log.Info("Client subscribed",
				zap.String("shop_domain", msg.Filters.ShopDomain),
				zap.String("event_name", msg.Filters.EventName))

			if err := client.send(websocket.TextMessage, h.message(TypeSubscriptionConfirmed, map[string]interface{}{
				"filters": msg.Filters,
			})); err != nil {
				h.log.Warn("Failed to confirm subscription", zap.Error(err))
				return
			}
		}
	}
}

// Broadcast pushes a tagged message to every currently registered
// subscriber. Declared subscription filters are not applied here; filtering
// is the client's concern.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	msg := h.message(eventType, data)

	for _, client := range h.snapshot() {
		if err := client.send(websocket.TextMessage, msg); err != nil {
			h.log.Warn("Dropping websocket client after failed send",
				zap.String("type", eventType),
				zap.Error(err))
			telemetry.BroadcastFailures.Inc()
			h.drop(client)
		}
	}
}

// Run drives the periodic liveness sweep until the context is cancelled. A
// connection that misses a pong is terminated one full interval after the
// missed ping.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Stopping websocket heartbeat")
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

// sweep terminates every client that has not re-marked itself alive since
// the previous sweep, then pings the survivors.
func (h *Hub) sweep() {
	for _, client := range h.snapshot() {
		if !client.exhaustAlive() {
			h.log.Info("Terminating unresponsive websocket connection")
			h.drop(client)
			continue
		}

		deadline := time.Now().Add(controlWriteTimeout)
		if err := client.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			h.log.Warn("Dropping websocket client after failed ping", zap.Error(err))
			h.drop(client)
		}
	}
}

// CloseAll terminates every connection, used on shutdown.
func (h *Hub) CloseAll() {
	for _, client := range h.snapshot() {
		h.drop(client)
	}
}

// ClientCount reports the current subscriber set size.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) snapshot() []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	_, present := h.clients[client]
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	if !present {
		return
	}

	telemetry.ConnectedClients.Set(float64(count))
	_ = client.conn.Close()
}

func (h *Hub) message(eventType string, data interface{}) Message {
	return Message{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
