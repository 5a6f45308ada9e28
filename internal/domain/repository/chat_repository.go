package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

// ChatRepository is backed by the realtime store. Threads are stored per
// participant so each side keeps its own sync flag.
type ChatRepository interface {
	ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error)
	GetConversation(ctx context.Context, uid, conversationID string) (*entity.Conversation, error)
	SetConversation(ctx context.Context, uid string, conversation *entity.Conversation) error
	MarkSynced(ctx context.Context, uid, conversationID string) error
	// Messages returns up to limit messages older than the cursor, oldest
	// first. A zero cursor reads the latest messages.
	Messages(ctx context.Context, conversationID string, cursor entity.MessageCursor, limit int) ([]*entity.Message, error)
	AddMessage(ctx context.Context, conversationID string, message *entity.Message) error
}
