package usecase

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect/internal/domain/entity"
	"medconnect/internal/infrastructure/websocket"
	"medconnect/pkg/errors"
)

type fakeChatRepo struct {
	mu            sync.Mutex
	conversations map[string]map[string]*entity.Conversation
	messages      map[string][]*entity.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		conversations: map[string]map[string]*entity.Conversation{},
		messages:      map[string][]*entity.Message{},
	}
}

func (r *fakeChatRepo) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, c := range r.conversations[uid] {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeChatRepo) GetConversation(ctx context.Context, uid, conversationID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[uid][conversationID]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *c
	return &copied, nil
}

func (r *fakeChatRepo) SetConversation(ctx context.Context, uid string, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conversations[uid] == nil {
		r.conversations[uid] = map[string]*entity.Conversation{}
	}
	copied := *conversation
	r.conversations[uid][conversation.ID] = &copied
	return nil
}

func (r *fakeChatRepo) MarkSynced(ctx context.Context, uid, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[uid][conversationID].Sync = true
	return nil
}

func (r *fakeChatRepo) Messages(ctx context.Context, conversationID string, cursor entity.MessageCursor, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[conversationID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]*entity.Message(nil), msgs...), nil
}

func (r *fakeChatRepo) AddMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = conversationID + "-" + string(rune('a'+len(r.messages[conversationID])))
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

type fakeConversationStore struct {
	conversations map[string][]*entity.Conversation
	messages      map[string][]*entity.Message
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: map[string][]*entity.Conversation{},
		messages:      map[string][]*entity.Message{},
	}
}

func (s *fakeConversationStore) SaveConversations(ctx context.Context, uid string, conversations []*entity.Conversation) error {
	s.conversations[uid] = conversations
	return nil
}

func (s *fakeConversationStore) ListConversations(ctx context.Context, uid string) ([]*entity.Conversation, error) {
	return s.conversations[uid], nil
}

func (s *fakeConversationStore) SaveMessages(ctx context.Context, conversationID string, messages []*entity.Message) error {
	s.messages[conversationID] = messages
	return nil
}

func (s *fakeConversationStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	return s.messages[conversationID], nil
}

type chatFixture struct {
	uc        *ChatUseCase
	chats     *fakeChatRepo
	blocks    *fakeBlockRepo
	local     *fakeConversationStore
	broadcast *fakeBroadcaster
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		chats:     newFakeChatRepo(),
		blocks:    newFakeBlockRepo(),
		local:     newFakeConversationStore(),
		broadcast: &fakeBroadcaster{},
	}
	f.uc = NewChatUseCase(f.chats, f.blocks, f.local, &fakeImages{}, f.broadcast, &fakeNetwork{}, nil)
	return f
}

func TestConversationID_IsSymmetric(t *testing.T) {
	assert.Equal(t, ConversationID("a", "b"), ConversationID("b", "a"))
	assert.Equal(t, "a_b", ConversationID("b", "a"))
}

func TestSendMessage_UpdatesBothConversations(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	msg, err := f.uc.SendMessage(ctx, "alice", "bob", " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.NotEmpty(t, msg.ID)

	cid := ConversationID("alice", "bob")
	mine, err := f.chats.GetConversation(ctx, "alice", cid)
	require.NoError(t, err)
	theirs, err := f.chats.GetConversation(ctx, "bob", cid)
	require.NoError(t, err)

	assert.True(t, mine.Sync)
	assert.Equal(t, "bob", mine.UserID)
	assert.False(t, theirs.Sync)
	assert.Equal(t, "alice", theirs.UserID)
	assert.Equal(t, "hello", theirs.LatestMessage)

	var toBob []string
	for _, e := range f.broadcast.events {
		if e.UserID == "bob" {
			toBob = append(toBob, e.Type)
		}
	}
	assert.Equal(t, []string{websocket.EventMessage, websocket.EventConversationUpdated}, toBob)
}

func TestSendMessage_Rejected(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	_, err := f.uc.SendMessage(ctx, "alice", "bob", "  ")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	require.NoError(t, f.blocks.Block(ctx, "bob", "alice"))
	_, err = f.uc.SendMessage(ctx, "alice", "bob", "hi")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	assert.Empty(t, f.chats.messages)
}

func TestSendImage_UploadsFirst(t *testing.T) {
	f := newChatFixture()

	msg, err := f.uc.SendImage(context.Background(), "alice", "bob", bytes.NewReader([]byte("png")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, entity.MessageImage, msg.Kind)
	assert.Contains(t, msg.ImageURL, ConversationID("alice", "bob"))

	theirs, _ := f.chats.GetConversation(context.Background(), "bob", ConversationID("alice", "bob"))
	assert.Equal(t, imagePreview, theirs.LatestMessage)
}

func TestMessages_RequiresParticipant(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	_, err := f.uc.SendMessage(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	_, err = f.uc.Messages(ctx, "mallory", ConversationID("alice", "bob"), entity.MessageCursor{}, 20)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	msgs, err := f.uc.Messages(ctx, "bob", ConversationID("alice", "bob"), entity.MessageCursor{}, 20)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestSyncConversations_RefetchesUnsyncedThreads(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	_, err := f.uc.SendMessage(ctx, "alice", "bob", "one")
	require.NoError(t, err)
	_, err = f.uc.SendMessage(ctx, "alice", "bob", "two")
	require.NoError(t, err)
	_, err = f.uc.SendMessage(ctx, "bob", "carol", "three")
	require.NoError(t, err)

	n, err := f.uc.SyncConversations(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cid := ConversationID("alice", "bob")
	local, err := f.uc.LocalMessages(ctx, cid, 50)
	require.NoError(t, err)
	assert.Len(t, local, 2)

	remote, _ := f.chats.GetConversation(ctx, "bob", cid)
	assert.True(t, remote.Sync)

	convs, err := f.uc.LocalConversations(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, convs, 2)
	for _, c := range convs {
		assert.True(t, c.Sync)
	}

	n, err = f.uc.SyncConversations(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
