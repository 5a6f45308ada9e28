package websocket

import (
	"encoding/json"
	"time"

	"medconnect/pkg/logger"
)

// Event types pushed to clients.
const (
	EventContentChanged      = "content_changed"
	EventMessage             = "message"
	EventConversationUpdated = "conversation_updated"
	EventNotification        = "notification"
	EventPong                = "pong"
	EventError               = "error"
)

// Client message types.
const (
	MessageTypePing = "ping"
)

type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// ContentChange is the optimistic state of one toggle. Listeners treat it as
// the current value until a later change for the same key arrives.
type ContentChange struct {
	Kind      string `json:"kind"`
	ContentID string `json:"content_id"`
	CommentID string `json:"comment_id,omitempty"`
	ReplyID   string `json:"reply_id,omitempty"`
	Value     bool   `json:"value"`
	Rollback  bool   `json:"rollback,omitempty"`
}

type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HandleClientMessage answers client frames. The socket is push-only, writes
// go through the HTTP API.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Debug("WebSocket: invalid frame from %s: %v", client.UserID, err)
		m.reply(client, EventError, map[string]string{"message": "Invalid message format"})
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.reply(client, EventPong, nil)
	default:
		m.reply(client, EventError, map[string]string{"message": "Unsupported message type: " + msg.Type})
	}
}

func (m *Manager) reply(client *Client, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now().UnixMilli()})
	if err != nil {
		return
	}
	client.enqueue(payload)
}
