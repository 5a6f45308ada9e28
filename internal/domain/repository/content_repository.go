package repository

import (
	"context"

	"medconnect/internal/domain/entity"
)

// ContentFilter scopes a post or case listing. Empty fields are not applied.
type ContentFilter struct {
	UserID     string
	GroupID    string
	Hashtag    string
	Profession string
	Visibility entity.Visibility
	// Public excludes anonymous content, used for profile listings.
	Public bool
	// ExcludeGroups drops group-only content from feeds.
	ExcludeGroups bool
}

// EngagementRepository covers the like/bookmark edges and the derived counters
// shared by posts and cases.
type EngagementRepository interface {
	Like(ctx context.Context, contentID, uid string) error
	Unlike(ctx context.Context, contentID, uid string) error
	Bookmark(ctx context.Context, contentID, uid string) error
	Unbookmark(ctx context.Context, contentID, uid string) error

	CountLikes(ctx context.Context, contentID string) (int64, error)
	CountComments(ctx context.Context, contentID string) (int64, error)
	DidLike(ctx context.Context, contentID, uid string) (bool, error)
	DidBookmark(ctx context.Context, contentID, uid string) (bool, error)

	ListBookmarks(ctx context.Context, uid, cursor string, limit int) ([]*entity.Bookmark, error)
	CountByUser(ctx context.Context, uid string) (int64, error)
}

type PostRepository interface {
	EngagementRepository

	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Post, error)
	List(ctx context.Context, filter ContentFilter, cursor string, limit int) ([]*entity.Post, error)
	UpdateContent(ctx context.Context, id, content string) error
	UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error
}

type CaseRepository interface {
	EngagementRepository

	Create(ctx context.Context, c *entity.Case) error
	GetByID(ctx context.Context, id string) (*entity.Case, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Case, error)
	List(ctx context.Context, filter ContentFilter, cursor string, limit int) ([]*entity.Case, error)
	UpdateVisibility(ctx context.Context, id string, visibility entity.Visibility) error
	Solve(ctx context.Context, id, revision string) error
	AddRevision(ctx context.Context, id, revision string) error
}
