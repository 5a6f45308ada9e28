package repository

import (
	"context"
	"time"

	"medconnect/internal/domain/entity"
)

// NotificationRepository is the remote copy, source of truth for badges and
// sync.
type NotificationRepository interface {
	List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Notification, error)
	ListSince(ctx context.Context, uid string, since time.Time) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, uid string) (int64, error)
	MarkRead(ctx context.Context, uid, id string) error
	Delete(ctx context.Context, uid, id string) error
}

// NotificationStore is the local relational mirror of the inbox.
type NotificationStore interface {
	Save(ctx context.Context, notifications []*entity.Notification) error
	List(ctx context.Context, uid string, limit, offset int) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	UnreadCount(ctx context.Context, uid string) (int64, error)
	LatestTimestamp(ctx context.Context, uid string) (time.Time, error)
}

// ConversationStore is the local mirror of chat threads.
type ConversationStore interface {
	SaveConversations(ctx context.Context, uid string, conversations []*entity.Conversation) error
	ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error)
	SaveMessages(ctx context.Context, conversationID string, messages []*entity.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error)
}
