package entity

import "time"

type GroupVisibility string

const (
	GroupPublic  GroupVisibility = "public"
	GroupPrivate GroupVisibility = "private"
)

type MemberPhase string

const (
	MemberPhaseMember  MemberPhase = "member"
	MemberPhaseAdmin   MemberPhase = "admin"
	MemberPhasePending MemberPhase = "pending"
	MemberPhaseBanned  MemberPhase = "banned"
)

type Group struct {
	ID          string          `json:"id" firestore:"id"`
	Name        string          `json:"name" firestore:"name"`
	Description string          `json:"description" firestore:"description"`
	ImageURL    string          `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	OwnerID     string          `json:"owner_id" firestore:"ownerId"`
	Professions []string        `json:"professions" firestore:"professions"`
	Visibility  GroupVisibility `json:"visibility" firestore:"visibility"`
	// PostApproval makes new group posts start as pending.
	PostApproval bool      `json:"post_approval" firestore:"postApproval"`
	Timestamp    time.Time `json:"timestamp" firestore:"timestamp"`

	Members int64 `json:"members" firestore:"-"`
}

type GroupMember struct {
	UserID    string      `json:"uid" firestore:"uid"`
	Phase     MemberPhase `json:"phase" firestore:"phase"`
	Timestamp time.Time   `json:"timestamp" firestore:"timestamp"`
}
