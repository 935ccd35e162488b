package websocket

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
)

const pingInterval = 30 * time.Second

// Client forwards hub notifications for a topic set to a single WebSocket
// connection. Displays and admin live views are clients; they never publish.
type Client struct {
	sub  *Subscription
	conn *ws.Conn
}

// NewClient subscribes to the given topics on behalf of the connection.
func NewClient(hub *Hub, conn *ws.Conn, topics ...string) *Client {
	return &Client{
		sub:  hub.Subscribe(topics...),
		conn: conn,
	}
}

// Run starts the write pump and runs the read pump. It blocks until the
// connection closes, then releases the subscription.
func (c *Client) Run(ctx context.Context) {
	defer c.sub.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads and discards all incoming messages. It returns on error
// (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
	}
}

// writePump drains the subscription and writes notifications to the socket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.Write(ctx, ws.MessageText, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
