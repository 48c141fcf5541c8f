package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Conn is the subset of *websocket.Conn the hub needs. Narrowing it keeps
// the fan-out logic testable without an open socket.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live fan-out subscriber. It exists only for the lifetime of
// its connection and has no identity beyond it.
type Client struct {
	conn Conn

	mu      sync.Mutex
	alive   bool
	filters *SubscribeFilters
}

func newClient(conn Conn) *Client {
	return &Client{conn: conn, alive: true}
}

// send marshals and writes one message. Writes are serialized because both
// the broadcast path and the read loop write to the connection.
func (c *Client) send(messageType int, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, payload)
}

func (c *Client) markAlive() {
	c.mu.Lock()
	c.alive = true
	c.mu.Unlock()
}

// exhaustAlive reports the current liveness and resets it, so a client has
// to pong again before the next sweep.
func (c *Client) exhaustAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	alive := c.alive
	c.alive = false
	return alive
}

func (c *Client) setFilters(f SubscribeFilters) {
	c.mu.Lock()
	c.filters = &f
	c.mu.Unlock()
}
