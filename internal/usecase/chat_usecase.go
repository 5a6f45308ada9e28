package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"medconnect/internal/domain/entity"
	"medconnect/internal/domain/repository"
	"medconnect/internal/infrastructure/telemetry"
	"medconnect/internal/infrastructure/websocket"
	"medconnect/pkg/errors"
)

const (
	syncMessageLimit = 50
	imagePreview     = "Image"
)

type ChatUseCase struct {
	chatRepo  repository.ChatRepository
	blockRepo repository.BlockRepository
	local     repository.ConversationStore
	images    ImageUploader
	broadcast Broadcaster
	network   Reachability
	telemetry *telemetry.Recorder
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	blockRepo repository.BlockRepository,
	local repository.ConversationStore,
	images ImageUploader,
	broadcast Broadcaster,
	network Reachability,
	recorder *telemetry.Recorder,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:  chatRepo,
		blockRepo: blockRepo,
		local:     local,
		images:    images,
		broadcast: broadcast,
		network:   network,
		telemetry: recorder,
	}
}

// ConversationID is the same for both participants.
func ConversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	return uc.chatRepo.ListConversations(ctx, uid)
}

// Messages pages backwards from cursor. uid must be a participant.
func (uc *ChatUseCase) Messages(ctx context.Context, uid, conversationID string, cursor entity.MessageCursor, limit int) ([]*entity.Message, error) {
	if _, err := uc.chatRepo.GetConversation(ctx, uid, conversationID); err != nil {
		return nil, err
	}
	return uc.chatRepo.Messages(ctx, conversationID, cursor, limit)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, uid, peerID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if err := uc.precheck(ctx, uid, peerID); err != nil {
		return nil, err
	}
	return uc.send(ctx, uid, peerID, &entity.Message{
		SenderID: uid,
		Text:     text,
		Kind:     entity.MessageText,
	}, text)
}

// SendImage uploads the image before the message referencing it is written.
func (uc *ChatUseCase) SendImage(ctx context.Context, uid, peerID string, r io.Reader, contentType string) (*entity.Message, error) {
	if err := uc.precheck(ctx, uid, peerID); err != nil {
		return nil, err
	}

	url, err := uc.images.UploadImage(ctx, entity.ImageChat, ConversationID(uid, peerID), r, contentType)
	if err != nil {
		return nil, err
	}

	return uc.send(ctx, uid, peerID, &entity.Message{
		SenderID: uid,
		Kind:     entity.MessageImage,
		ImageURL: url,
	}, imagePreview)
}

func (uc *ChatUseCase) precheck(ctx context.Context, uid, peerID string) error {
	if uid == peerID {
		return errors.BadRequest("Cannot message yourself", nil)
	}
	if err := uc.network.Require(); err != nil {
		return err
	}
	return notBlocked(ctx, uc.blockRepo, uid, peerID)
}

// send pushes the message, then rewrites both conversation entries. The
// peer's entry is marked unsynced.
func (uc *ChatUseCase) send(ctx context.Context, uid, peerID string, msg *entity.Message, preview string) (*entity.Message, error) {
	cid := ConversationID(uid, peerID)
	msg.Timestamp = time.Now().UnixMilli()
	if err := uc.chatRepo.AddMessage(ctx, cid, msg); err != nil {
		return nil, err
	}

	mine := &entity.Conversation{ID: cid, UserID: peerID, LatestMessage: preview, Timestamp: msg.Timestamp, Sync: true}
	theirs := &entity.Conversation{ID: cid, UserID: uid, LatestMessage: preview, Timestamp: msg.Timestamp, Sync: false}

	err := join(2, func(i int) error {
		if i == 0 {
			return uc.chatRepo.SetConversation(ctx, uid, mine)
		}
		return uc.chatRepo.SetConversation(ctx, peerID, theirs)
	})
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{"conversation_id": cid, "message": msg}
	uc.broadcast.Publish(peerID, websocket.EventMessage, payload)
	uc.broadcast.Publish(peerID, websocket.EventConversationUpdated, theirs)
	uc.broadcast.Publish(uid, websocket.EventConversationUpdated, mine)

	uc.telemetry.Event(ctx, telemetry.EventSendMessage)
	return msg, nil
}

func (uc *ChatUseCase) MarkSynced(ctx context.Context, uid, conversationID string) error {
	if err := uc.network.Require(); err != nil {
		return err
	}
	return uc.chatRepo.MarkSynced(ctx, uid, conversationID)
}

// SyncConversations mirrors the conversation list locally and refetches the
// latest messages of every thread flagged as unsynced. It returns the
// number of threads refreshed.
func (uc *ChatUseCase) SyncConversations(ctx context.Context, uid string) (int, error) {
	if err := uc.network.Require(); err != nil {
		return 0, err
	}

	conversations, err := uc.chatRepo.ListConversations(ctx, uid)
	if err != nil {
		return 0, err
	}

	var stale []*entity.Conversation
	for _, c := range conversations {
		if !c.Sync {
			stale = append(stale, c)
		}
	}

	err = join(len(stale), func(i int) error {
		c := stale[i]
		messages, err := uc.chatRepo.Messages(ctx, c.ID, entity.MessageCursor{}, syncMessageLimit)
		if err != nil {
			return err
		}
		if err := uc.local.SaveMessages(ctx, c.ID, messages); err != nil {
			return err
		}
		return uc.chatRepo.MarkSynced(ctx, uid, c.ID)
	})
	if err != nil {
		return 0, err
	}

	for _, c := range stale {
		c.Sync = true
	}
	if err := uc.local.SaveConversations(ctx, uid, conversations); err != nil {
		return 0, err
	}
	return len(stale), nil
}

func (uc *ChatUseCase) LocalConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	return uc.local.ListConversations(ctx, uid)
}

func (uc *ChatUseCase) LocalMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	return uc.local.ListMessages(ctx, conversationID, limit)
}
