package entity

import "time"

type PostKind string

const (
	PostKindText  PostKind = "text"
	PostKindImage PostKind = "image"
	PostKindLink  PostKind = "link"
)

type Post struct {
	ID          string     `json:"id" firestore:"id"`
	UserID      string     `json:"uid" firestore:"uid"`
	Content     string     `json:"content" firestore:"content"`
	Kind        PostKind   `json:"kind" firestore:"kind"`
	ImageURLs   []string   `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Link        string     `json:"link,omitempty" firestore:"link,omitempty"`
	Professions []string   `json:"professions" firestore:"professions"`
	Visibility  Visibility `json:"visibility" firestore:"visibility"`
	Privacy     Privacy    `json:"privacy" firestore:"privacy"`
	GroupID     string     `json:"group_id,omitempty" firestore:"groupId,omitempty"`
	Timestamp   time.Time  `json:"timestamp" firestore:"timestamp"`
	Edited      bool       `json:"edited" firestore:"edited"`

	Engagement `firestore:"-"`
}
