package entity

// Realtime store records use millisecond timestamps and json tags, the
// realtime client decodes through encoding/json.

type Conversation struct {
	ID            string `json:"id,omitempty"`
	UserID        string `json:"userId"`
	LatestMessage string `json:"latestMessage"`
	Timestamp     int64  `json:"timestamp"`
	Sync          bool   `json:"sync"`
}

type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
)

type Message struct {
	ID        string      `json:"id,omitempty"`
	SenderID  string      `json:"senderId"`
	Text      string      `json:"text"`
	Kind      MessageKind `json:"kind"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// MessageCursor is the oldest message the caller already holds.
type MessageCursor struct {
	Timestamp int64
	ID        string
}

func (c MessageCursor) IsZero() bool {
	return c.Timestamp == 0
}

// RecentSearch is either a free text term or a visited user.
type RecentSearch struct {
	ID        string `json:"id"`
	Term      string `json:"term,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Timestamp int64  `json:"timestamp"`
}
