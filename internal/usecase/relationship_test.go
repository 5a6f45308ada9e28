package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect/internal/domain/entity"
	"medconnect/pkg/errors"
)

func newConnectionUseCase() (*ConnectionUseCase, *fakeConnectionRepo, *fakeBlockRepo, *fakeFunctions, *fakeNetwork) {
	conns := newFakeConnectionRepo()
	blocks := newFakeBlockRepo()
	functions := &fakeFunctions{}
	network := &fakeNetwork{}
	return NewConnectionUseCase(conns, blocks, functions, network, nil), conns, blocks, functions, network
}

func TestConnect_WritesBothSides(t *testing.T) {
	uc, conns, _, functions, _ := newConnectionUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Connect(ctx, "alice", "bob"))

	mine, _ := conns.phase("alice", "bob")
	theirs, _ := conns.phase("bob", "alice")
	assert.Equal(t, entity.ConnectionPending, mine)
	assert.Equal(t, entity.ConnectionReceived, theirs)
	assert.Equal(t, []string{FnConnectionRequest}, functions.names())
}

func TestConnect_CompensatesWhenSecondSideFails(t *testing.T) {
	uc, conns, _, functions, _ := newConnectionUseCase()
	conns.failFor = "bob"

	err := uc.Connect(context.Background(), "alice", "bob")
	require.Error(t, err)

	_, ok := conns.phase("alice", "bob")
	assert.False(t, ok, "first side should be removed again")
	assert.Empty(t, functions.names())
}

func TestUnconnect_CompensationRestoresPreviousPhase(t *testing.T) {
	uc, conns, _, _, _ := newConnectionUseCase()
	ctx := context.Background()
	require.NoError(t, uc.Connect(ctx, "alice", "bob"))
	require.NoError(t, uc.Accept(ctx, "bob", "alice"))

	conns.failFor = "bob"
	require.Error(t, uc.Unconnect(ctx, "alice", "bob"))

	mine, _ := conns.phase("alice", "bob")
	assert.Equal(t, entity.ConnectionConnected, mine)
}

func TestConnectionLifecycle(t *testing.T) {
	uc, _, _, functions, _ := newConnectionUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Connect(ctx, "alice", "bob"))

	// only the receiver may accept
	err := uc.Accept(ctx, "alice", "bob")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	require.NoError(t, uc.Accept(ctx, "bob", "alice"))
	phase, err := uc.Phase(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, entity.ConnectionConnected, phase)

	n, err := uc.Count(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, uc.Unconnect(ctx, "bob", "alice"))
	phase, _ = uc.Phase(ctx, "alice", "bob")
	assert.Equal(t, entity.ConnectionUnconnect, phase)

	assert.Equal(t, []string{FnConnectionRequest, FnConnectionAccept}, functions.names())
}

func TestConnect_ReceivedRequestIsAccepted(t *testing.T) {
	uc, _, _, _, _ := newConnectionUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Connect(ctx, "alice", "bob"))
	require.NoError(t, uc.Connect(ctx, "bob", "alice"))

	phase, _ := uc.Phase(ctx, "alice", "bob")
	assert.Equal(t, entity.ConnectionConnected, phase)
}

func TestConnect_Duplicate(t *testing.T) {
	uc, _, _, _, _ := newConnectionUseCase()
	ctx := context.Background()
	require.NoError(t, uc.Connect(ctx, "alice", "bob"))

	err := uc.Connect(ctx, "alice", "bob")
	assert.True(t, errors.Is(err, errors.CodeExists))
}

func TestWithdrawAndReject(t *testing.T) {
	uc, _, _, _, _ := newConnectionUseCase()
	ctx := context.Background()

	require.NoError(t, uc.Connect(ctx, "alice", "bob"))
	require.NoError(t, uc.Withdraw(ctx, "alice", "bob"))
	phase, _ := uc.Phase(ctx, "bob", "alice")
	assert.Equal(t, entity.ConnectionWithdraw, phase)

	require.NoError(t, uc.Connect(ctx, "alice", "carol"))
	require.NoError(t, uc.Reject(ctx, "carol", "alice"))
	phase, _ = uc.Phase(ctx, "alice", "carol")
	assert.Equal(t, entity.ConnectionRejected, phase)
}

func TestConnect_BlockedEitherWay(t *testing.T) {
	uc, conns, blocks, _, _ := newConnectionUseCase()
	ctx := context.Background()
	require.NoError(t, blocks.Block(ctx, "bob", "alice"))

	err := uc.Connect(ctx, "alice", "bob")
	assert.True(t, errors.Is(err, errors.CodeForbidden))
	_, ok := conns.phase("alice", "bob")
	assert.False(t, ok)
}

func TestConnect_OfflineWritesNothing(t *testing.T) {
	uc, conns, _, _, network := newConnectionUseCase()
	network.offline = true

	err := uc.Connect(context.Background(), "alice", "bob")
	assert.True(t, errors.Is(err, errors.CodeNetwork))
	assert.Empty(t, conns.edges)
}

func TestPhase_NoneWhenMissing(t *testing.T) {
	uc, _, _, _, _ := newConnectionUseCase()
	phase, err := uc.Phase(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, entity.ConnectionNone, phase)
}

func TestFollow_BothDirections(t *testing.T) {
	follows := newFakeFollowRepo()
	functions := &fakeFunctions{}
	uc := NewFollowUseCase(follows, newFakeBlockRepo(), functions, &fakeNetwork{}, nil)
	ctx := context.Background()

	require.NoError(t, uc.Follow(ctx, "alice", "bob"))

	following, err := uc.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	page, err := uc.Followers(ctx, "bob", "", 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice", page.Items[0].UserID)
	assert.Equal(t, []string{FnFollow}, functions.names())

	require.NoError(t, uc.Unfollow(ctx, "alice", "bob"))
	following, _ = uc.IsFollowing(ctx, "alice", "bob")
	assert.False(t, following)
}

func TestFollow_CompensatesWhenFollowerWriteFails(t *testing.T) {
	follows := newFakeFollowRepo()
	follows.failFollower = true
	uc := NewFollowUseCase(follows, newFakeBlockRepo(), &fakeFunctions{}, &fakeNetwork{}, nil)

	require.Error(t, uc.Follow(context.Background(), "alice", "bob"))

	following, _ := follows.IsFollowing(context.Background(), "alice", "bob")
	assert.False(t, following)
}

func TestUnfollow_CompensationRestoresFollowing(t *testing.T) {
	follows := newFakeFollowRepo()
	uc := NewFollowUseCase(follows, newFakeBlockRepo(), &fakeFunctions{}, &fakeNetwork{}, nil)
	ctx := context.Background()
	require.NoError(t, uc.Follow(ctx, "alice", "bob"))

	follows.failUnfollows = true
	require.Error(t, uc.Unfollow(ctx, "alice", "bob"))

	following, _ := follows.IsFollowing(ctx, "alice", "bob")
	assert.True(t, following)
}

func TestBlock(t *testing.T) {
	blocks := newFakeBlockRepo()
	uc := NewBlockUseCase(blocks, &fakeNetwork{})
	ctx := context.Background()

	err := uc.Block(ctx, "alice", "alice")
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	require.NoError(t, uc.Block(ctx, "alice", "bob"))
	blocked, err := uc.IsBlocked(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, blocked)

	page, err := uc.List(ctx, "alice", "", 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, uc.Unblock(ctx, "alice", "bob"))
	blocked, _ = uc.IsBlocked(ctx, "alice", "bob")
	assert.False(t, blocked)
}
