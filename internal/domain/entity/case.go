package entity

import "time"

type CasePhase string

const (
	CasePhaseSolved   CasePhase = "solved"
	CasePhaseUnsolved CasePhase = "unsolved"
)

// Case is a clinical case shared for discussion.
type Case struct {
	ID           string     `json:"id" firestore:"id"`
	UserID       string     `json:"uid" firestore:"uid"`
	Title        string     `json:"title" firestore:"title"`
	Content      string     `json:"content" firestore:"content"`
	Hashtags     []string   `json:"hashtags,omitempty" firestore:"hashtags,omitempty"`
	Specialities []string   `json:"specialities,omitempty" firestore:"specialities,omitempty"`
	Professions  []string   `json:"professions" firestore:"professions"`
	ImageURLs    []string   `json:"image_urls,omitempty" firestore:"imageUrls,omitempty"`
	Phase        CasePhase  `json:"phase" firestore:"phase"`
	Revision     string     `json:"revision,omitempty" firestore:"revision,omitempty"`
	Visibility   Visibility `json:"visibility" firestore:"visibility"`
	Privacy      Privacy    `json:"privacy" firestore:"privacy"`
	GroupID      string     `json:"group_id,omitempty" firestore:"groupId,omitempty"`
	Timestamp    time.Time  `json:"timestamp" firestore:"timestamp"`

	Engagement `firestore:"-"`
}
