package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

// ConnectionRepository writes one side of a connection edge per call.
type ConnectionRepository interface {
	Get(ctx context.Context, uid, otherID string) (*entity.Connection, error)
	Set(ctx context.Context, uid, otherID string, phase entity.ConnectionPhase) error
	Delete(ctx context.Context, uid, otherID string) error
	List(ctx context.Context, uid string, phase entity.ConnectionPhase, cursor string, limit int) ([]*entity.Connection, error)
	Count(ctx context.Context, uid string, phase entity.ConnectionPhase) (int64, error)
}

// FollowRepository writes one direction per call: following under uid,
// followers under otherID.
type FollowRepository interface {
	AddFollowing(ctx context.Context, uid, otherID string) error
	RemoveFollowing(ctx context.Context, uid, otherID string) error
	AddFollower(ctx context.Context, uid, followerID string) error
	RemoveFollower(ctx context.Context, uid, followerID string) error
	IsFollowing(ctx context.Context, uid, otherID string) (bool, error)
	ListFollowing(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error)
	ListFollowers(ctx context.Context, uid, cursor string, limit int) ([]*entity.Follow, error)
	CountFollowing(ctx context.Context, uid string) (int64, error)
	CountFollowers(ctx context.Context, uid string) (int64, error)
}

type BlockRepository interface {
	// Block commits the block edge, both follow edges and both connection
	// sides in one batch.
	Block(ctx context.Context, uid, otherID string) error
	Unblock(ctx context.Context, uid, otherID string) error
	IsBlocked(ctx context.Context, uid, otherID string) (bool, error)
	List(ctx context.Context, uid, cursor string, limit int) ([]*entity.Block, error)
}
