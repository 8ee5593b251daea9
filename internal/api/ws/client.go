package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
)

const (
	// sendQueueSize bounds the per-client outbound buffer; a client that
	// falls further behind loses messages rather than blocking the hub.
	sendQueueSize = 32

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// client is one WebSocket connection. The hub never writes to the
// socket directly; all output goes through the send queue so one slow
// client cannot stall a broadcast.
type client struct {
	id   string
	role string
	conn *websocket.Conn
	send chan []byte

	// mu serializes enqueue against close so no send can race a
	// teardown; the send channel itself is never closed.
	mu     sync.Mutex
	closed bool
	done   chan struct{}

	logger *logging.Logger
}

func newClient(id, role string, conn *websocket.Conn, logger *logging.Logger) *client {
	return &client{
		id:     id,
		role:   role,
		conn:   conn,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// enqueue queues data for delivery. Returns false when the client has
// been torn down or its buffer is full; full buffers drop the message.
func (c *client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("dropping message for slow client",
			zap.String("conn_id", c.id),
			zap.String("role", c.role),
		)
		return false
	}
}

// close marks the client torn down and stops its write pump. Safe to
// call more than once.
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

// writePump drains the send queue onto the socket and keeps the
// connection alive with pings. Runs on its own goroutine per client;
// exits when the client is closed or a write fails.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
