package entity

import "time"

type CommentVisibility string

const (
	CommentRegular   CommentVisibility = "regular"
	CommentAnonymous CommentVisibility = "anonymous"
	CommentDeleted   CommentVisibility = "deleted"
)

// CommentRef addresses a comment or a reply. ReplyID is empty for top-level
// comments.
type CommentRef struct {
	Kind      ContentKind
	ContentID string
	CommentID string
	ReplyID   string
}

func (r CommentRef) IsReply() bool {
	return r.ReplyID != ""
}

type Comment struct {
	ID         string            `json:"id" firestore:"id"`
	ContentID  string            `json:"content_id" firestore:"contentId"`
	ParentID   string            `json:"parent_id,omitempty" firestore:"parentId,omitempty"`
	UserID     string            `json:"uid" firestore:"uid"`
	Content    string            `json:"content" firestore:"content"`
	Visibility CommentVisibility `json:"visibility" firestore:"visibility"`
	Timestamp  time.Time         `json:"timestamp" firestore:"timestamp"`

	Likes         int64 `json:"likes" firestore:"-"`
	Replies       int64 `json:"replies" firestore:"-"`
	DidLike       bool  `json:"did_like" firestore:"-"`
	AuthorReplied bool  `json:"author_replied" firestore:"-"`
}
