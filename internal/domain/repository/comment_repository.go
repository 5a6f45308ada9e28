package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

type CommentRepository interface {
	// Create adds a comment, or a reply when ref.CommentID is set.
	Create(ctx context.Context, ref entity.CommentRef, comment *entity.Comment) error
	Get(ctx context.Context, ref entity.CommentRef) (*entity.Comment, error)
	// List returns comments of the content, or replies of ref.CommentID.
	List(ctx context.Context, ref entity.CommentRef, cursor string, limit int) ([]*entity.Comment, error)
	UpdateVisibility(ctx context.Context, ref entity.CommentRef, visibility entity.CommentVisibility) error

	Like(ctx context.Context, ref entity.CommentRef, uid string) error
	Unlike(ctx context.Context, ref entity.CommentRef, uid string) error
	CountLikes(ctx context.Context, ref entity.CommentRef) (int64, error)
	DidLike(ctx context.Context, ref entity.CommentRef, uid string) (bool, error)
	CountReplies(ctx context.Context, ref entity.CommentRef) (int64, error)
	HasReplyFrom(ctx context.Context, ref entity.CommentRef, uid string) (bool, error)
}
