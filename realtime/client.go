package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/madebyaram2024/PPC-CRM-sub000/utils"
)

// Client is one live transport connection (one browser tab). The read pump
// feeds inbound frames to the router; the write pump drains the send channel
// to the socket. All outbound traffic goes through the buffered send channel
// so a slow consumer never blocks a room fan-out.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	logger *utils.Logger

	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newClient(id string, conn *websocket.Conn, logger *utils.Logger, bufferSize int, ping, pong, write time.Duration) *Client {
	return &Client{
		id:           id,
		conn:         conn,
		send:         make(chan []byte, bufferSize),
		logger:       logger,
		pingInterval: ping,
		pongTimeout:  pong,
		writeTimeout: write,
	}
}

// ID returns the opaque connection identifier.
func (c *Client) ID() string {
	return c.id
}

// trySend queues a frame for delivery without blocking. Reports false when
// the connection is closed or its buffer is full; the frame is dropped
// (delivery is best-effort, at-most-once).
func (c *Client) trySend(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend marks the client closed and shuts the send channel so the write
// pump drains and exits. Safe to call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads frames from the socket and hands them to the router until
// the connection drops. Runs as the connection's goroutine; the disconnect
// handler fires exactly once when it returns.
func (c *Client) readPump(router *Router) {
	defer func() {
		router.HandleDisconnect(c)
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Connection read error", "connection", c.id, "error", err)
			}
			return
		}
		router.HandleEvent(c, raw)
	}
}

// writePump drains the send channel to the socket and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
