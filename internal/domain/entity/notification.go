package entity

import "time"

type NotificationKind string

const (
	NotificationLikePost          NotificationKind = "likePost"
	NotificationLikeCase          NotificationKind = "likeCase"
	NotificationReplyPost         NotificationKind = "replyPost"
	NotificationReplyCase         NotificationKind = "replyCase"
	NotificationLikeReply         NotificationKind = "likeReply"
	NotificationConnectionRequest NotificationKind = "connectionRequest"
	NotificationConnectionAccept  NotificationKind = "connectionAccept"
	NotificationCaseApprove       NotificationKind = "caseApprove"
	NotificationCaseRevision      NotificationKind = "caseRevision"
	NotificationFollow            NotificationKind = "follow"
	NotificationGroupRequest      NotificationKind = "groupRequest"
	NotificationGroupAccept       NotificationKind = "groupAccept"
)

type Notification struct {
	ID        string           `json:"id" firestore:"id"`
	UserID    string           `json:"uid" firestore:"uid"`
	FromID    string           `json:"from_id" firestore:"fromId"`
	Kind      NotificationKind `json:"kind" firestore:"kind"`
	ContentID string           `json:"content_id,omitempty" firestore:"contentId,omitempty"`
	CommentID string           `json:"comment_id,omitempty" firestore:"commentId,omitempty"`
	Timestamp time.Time        `json:"timestamp" firestore:"timestamp"`
	IsRead    bool             `json:"is_read" firestore:"isRead"`
}
