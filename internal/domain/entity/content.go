package entity

import "time"

// Visibility is a one-way soft delete flag shared by posts and cases.
type Visibility string

const (
	VisibilityRegular Visibility = "regular"
	VisibilityHidden  Visibility = "hidden"
	VisibilityDeleted Visibility = "deleted"
	VisibilityPending Visibility = "pending"
)

// CanMoveTo reports whether a visibility transition is allowed. Deleted is
// terminal and nothing returns to pending.
func (v Visibility) CanMoveTo(next Visibility) bool {
	switch v {
	case VisibilityDeleted:
		return false
	case VisibilityPending:
		return next == VisibilityRegular || next == VisibilityDeleted
	case VisibilityRegular:
		return next == VisibilityHidden || next == VisibilityDeleted
	case VisibilityHidden:
		return next == VisibilityDeleted
	}
	return false
}

type Privacy string

const (
	PrivacyPublic    Privacy = "public"
	PrivacyAnonymous Privacy = "anonymous"
	PrivacyGroup     Privacy = "group"
)

// ContentKind selects the collection family a comment, like or bookmark
// belongs to.
type ContentKind string

const (
	ContentPost ContentKind = "post"
	ContentCase ContentKind = "case"
)

func (k ContentKind) Valid() bool {
	return k == ContentPost || k == ContentCase
}

func (k ContentKind) Collection() string {
	if k == ContentCase {
		return "cases"
	}
	return "posts"
}

// Engagement holds the per-viewer derived fields filled by the fan-out join.
type Engagement struct {
	Likes       int64 `json:"likes"`
	Comments    int64 `json:"comments"`
	DidLike     bool  `json:"did_like"`
	DidBookmark bool  `json:"did_bookmark"`
}

// Bookmark is the per-user index document pointing at a post or case.
type Bookmark struct {
	ID        string    `json:"id" firestore:"id"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
