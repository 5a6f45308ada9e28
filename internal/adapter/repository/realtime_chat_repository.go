package repository

import (
	"context"

	"firebase.google.com/go/v4/db"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/pkg/errors"
)

type realtimeChatRepository struct {
	client *db.Client
}

func NewRealtimeChatRepository(client *db.Client) repository.ChatRepository {
	return &realtimeChatRepository{
		client: client,
	}
}

func (r *realtimeChatRepository) conversations(uid string) *db.Ref {
	return r.client.NewRef("conversations").Child(uid)
}

func (r *realtimeChatRepository) messages(conversationID string) *db.Ref {
	return r.client.NewRef("messages").Child(conversationID)
}

// ListConversations returns the threads of uid, most recent first.
func (r *realtimeChatRepository) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	nodes, err := r.conversations(uid).OrderByChild("timestamp").GetOrdered(ctx)
	if err != nil {
		return nil, errors.FromBackend(err, "Conversations")
	}

	conversations := make([]*entity.Conversation, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		var c entity.Conversation
		if err := nodes[i].Unmarshal(&c); err != nil {
			return nil, errors.Unknown("Failed to parse conversation data", err)
		}
		c.ID = nodes[i].Key()
		conversations = append(conversations, &c)
	}
	return conversations, nil
}

func (r *realtimeChatRepository) GetConversation(ctx context.Context, uid, conversationID string) (*entity.Conversation, error) {
	var c entity.Conversation
	if err := r.conversations(uid).Child(conversationID).Get(ctx, &c); err != nil {
		return nil, errors.FromBackend(err, "Conversation")
	}
	if c.UserID == "" {
		return nil, errors.NotFound("Conversation", nil)
	}
	c.ID = conversationID
	return &c, nil
}

func (r *realtimeChatRepository) SetConversation(ctx context.Context, uid string, conversation *entity.Conversation) error {
	if err := r.conversations(uid).Child(conversation.ID).Set(ctx, conversation); err != nil {
		return errors.FromBackend(err, "Conversation")
	}
	return nil
}

func (r *realtimeChatRepository) MarkSynced(ctx context.Context, uid, conversationID string) error {
	err := r.conversations(uid).Child(conversationID).Update(ctx, map[string]interface{}{"sync": true})
	if err != nil {
		return errors.FromBackend(err, "Conversation")
	}
	return nil
}

// Messages emulates a cursor with orderByChild/endAt/limitToLast. endAt is
// inclusive on the timestamp only, so every child tied with the cursor
// timestamp comes back and those at or after the cursor key are dropped.
// The window grows until a full page survives or the thread is exhausted.
func (r *realtimeChatRepository) Messages(ctx context.Context, conversationID string, cursor entity.MessageCursor, limit int) ([]*entity.Message, error) {
	if cursor.IsZero() {
		nodes, err := r.messages(conversationID).OrderByChild("timestamp").LimitToLast(limit).GetOrdered(ctx)
		if err != nil {
			return nil, errors.FromBackend(err, "Messages")
		}
		return decodeMessages(nodes)
	}

	return pageBefore(cursor, limit, func(window int) ([]*entity.Message, error) {
		nodes, err := r.messages(conversationID).OrderByChild("timestamp").
			EndAt(cursor.Timestamp).LimitToLast(window).GetOrdered(ctx)
		if err != nil {
			return nil, errors.FromBackend(err, "Messages")
		}
		return decodeMessages(nodes)
	})
}

// pageBefore calls fetch with a growing window of the newest messages at or
// before the cursor timestamp.
func pageBefore(cursor entity.MessageCursor, limit int, fetch func(window int) ([]*entity.Message, error)) ([]*entity.Message, error) {
	window := limit + 1
	for {
		messages, err := fetch(window)
		if err != nil {
			return nil, err
		}
		page := olderThan(messages, cursor, limit)
		if len(page) == limit || len(messages) < window {
			return page, nil
		}
		window *= 2
	}
}

func decodeMessages(nodes []db.QueryNode) ([]*entity.Message, error) {
	messages := make([]*entity.Message, 0, len(nodes))
	for _, node := range nodes {
		var m entity.Message
		if err := node.Unmarshal(&m); err != nil {
			return nil, errors.Unknown("Failed to parse message data", err)
		}
		m.ID = node.Key()
		messages = append(messages, &m)
	}
	return messages, nil
}

// olderThan keeps the last limit messages that sort strictly before cursor
// in (timestamp, key) order. messages must already be in that order.
func olderThan(messages []*entity.Message, cursor entity.MessageCursor, limit int) []*entity.Message {
	kept := make([]*entity.Message, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp > cursor.Timestamp {
			continue
		}
		if m.Timestamp == cursor.Timestamp && m.ID >= cursor.ID {
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}

func (r *realtimeChatRepository) AddMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	ref, err := r.messages(conversationID).Push(ctx, message)
	if err != nil {
		return errors.FromBackend(err, "Message")
	}
	message.ID = ref.Key
	return nil
}
