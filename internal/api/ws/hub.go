package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
	"github.com/foliohq/folio/backend/internal/infrastructure/monitoring"
	"github.com/foliohq/folio/backend/internal/shared/id"
	"github.com/foliohq/folio/backend/internal/shared/types"
)

// ErrNoHost is returned when a surface command has no connected host
// shell to go to.
var ErrNoHost = errors.New("host shell not connected")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // loopback-only server, shell connects from file:// origin
	},
}

// Events receives window lifecycle notifications parsed off the host
// shell connection.
type Events interface {
	WindowResized(bounds types.WindowBounds)
	WindowFocused()
	WindowCloseRequested()
}

// Hub tracks connected clients and routes messages. UI clients receive
// state broadcasts; the single host-shell connection additionally
// receives surface commands and feeds window events back in.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	hostID  string

	events  Events
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewHub creates a connection hub.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
	}
}

// WithMetrics adds metrics tracking to the hub.
func (h *Hub) WithMetrics(metrics *monitoring.Metrics) *Hub {
	h.metrics = metrics
	return h
}

// SetEvents wires the window event sink. Must be called before the
// first connection is accepted.
func (h *Hub) SetEvents(events Events) {
	h.events = events
}

// HandleConnection upgrades the request and serves the connection until
// it drops. The host shell identifies itself with ?role=host; at most
// one host connection is active, a new one displaces the old.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	role := c.Query("role")
	cl := newClient(id.NewConnID().String(), role, conn, h.logger)

	h.register(cl)
	defer h.unregister(cl)

	go cl.writePump()

	h.sendTo(cl, TypeSystem, map[string]interface{}{"message": "connected"})

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("conn_id", cl.id), zap.Error(err))
			}
			return
		}
		h.dispatch(cl, data)
	}
}

func (h *Hub) dispatch(cl *client, data []byte) {
	var msg Envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(cl, "malformed message")
		return
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage("in", msg.Type)
	}

	switch msg.Type {
	case TypePing:
		h.sendTo(cl, TypePong, nil)
	case TypeWindowResized:
		var bounds types.WindowBounds
		if err := json.Unmarshal(msg.Payload, &bounds); err != nil {
			h.sendError(cl, "malformed window bounds")
			return
		}
		if h.events != nil {
			h.events.WindowResized(bounds)
		}
	case TypeWindowFocused:
		if h.events != nil {
			h.events.WindowFocused()
		}
	case TypeWindowCloseRequest:
		if h.events != nil {
			h.events.WindowCloseRequested()
		}
	default:
		h.sendError(cl, "unknown message type")
	}
}

// NotifyState broadcasts the session state to every connected client.
// Never blocks: slow clients drop the update and catch up on the next.
func (h *Hub) NotifyState(state types.SessionState) {
	h.broadcast(TypeTabStateChanged, state)
}

// SendToHost delivers a surface command to the host shell connection.
func (h *Hub) SendToHost(msgType string, payload interface{}) error {
	h.mu.RLock()
	host := h.clients[h.hostID]
	h.mu.RUnlock()

	if host == nil {
		return ErrNoHost
	}

	data, err := encode(msgType, payload)
	if err != nil {
		return err
	}
	if !host.enqueue(data) {
		return errors.New("host send queue full")
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
	return nil
}

// HostConnected reports whether a host shell connection is active.
func (h *Hub) HostConnected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[h.hostID] != nil
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(msgType string, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast", zap.String("type", msgType), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		if cl.enqueue(data) && h.metrics != nil {
			h.metrics.RecordWSMessage("out", msgType)
		}
	}
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	h.clients[cl.id] = cl
	if cl.role == "host" {
		if prev := h.clients[h.hostID]; prev != nil {
			h.logger.Warn("replacing host connection", zap.String("old", h.hostID), zap.String("new", cl.id))
		}
		h.hostID = cl.id
	}
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Info("client connected",
		zap.String("conn_id", cl.id),
		zap.String("role", cl.role),
		zap.Int("total", count),
	)
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.id)
	if h.hostID == cl.id {
		h.hostID = ""
	}
	count := len(h.clients)
	h.mu.Unlock()

	cl.close()

	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Info("client disconnected", zap.String("conn_id", cl.id), zap.Int("total", count))
}

func (h *Hub) sendTo(cl *client, msgType string, payload interface{}) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}
	cl.enqueue(data)
}

func (h *Hub) sendError(cl *client, msg string) {
	h.sendTo(cl, TypeError, map[string]interface{}{"message": msg})
}

func encode(msgType string, payload interface{}) ([]byte, error) {
	return json.Marshal(outbound{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	})
}
