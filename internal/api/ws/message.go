package ws

import "encoding/json"

// Outbound message types.
const (
	TypeSystem          = "system"
	TypePong            = "pong"
	TypeError           = "error"
	TypeTabStateChanged = "tab-state-changed"
)

// Inbound message types. Window events come from the host shell
// connection; ping may come from any client.
const (
	TypePing               = "ping"
	TypeWindowResized      = "window_resized"
	TypeWindowFocused      = "window_focused"
	TypeWindowCloseRequest = "window_close_request"
)

// Envelope is the wire form of every message, both directions. Payload
// stays raw on the inbound path so each handler decodes its own shape.
type Envelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// outbound pairs a type with an arbitrary payload for encoding.
type outbound struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}
