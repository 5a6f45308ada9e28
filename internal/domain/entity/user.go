package entity

import (
	"time"
)

type UserPhase string

const (
	UserPhaseOnboarding           UserPhase = "onboarding"
	UserPhaseAwaitingVerification UserPhase = "awaitingVerification"
	UserPhaseVerified             UserPhase = "verified"
	UserPhaseDeactivated          UserPhase = "deactivated"
)

// CanAdvanceTo reports whether the registration phase may move to next.
func (p UserPhase) CanAdvanceTo(next UserPhase) bool {
	switch p {
	case UserPhaseOnboarding:
		return next == UserPhaseAwaitingVerification || next == UserPhaseDeactivated
	case UserPhaseAwaitingVerification:
		return next == UserPhaseVerified || next == UserPhaseDeactivated
	case UserPhaseVerified:
		return next == UserPhaseDeactivated
	}
	return false
}

// UserRoleAdmin may verify professionals and moderate accounts. Regular users
// carry no role.
const UserRoleAdmin = "admin"

type UserKind string

const (
	UserKindProfessional UserKind = "professional"
	UserKindStudent      UserKind = "student"
)

type User struct {
	ID        string    `json:"id" firestore:"id"`
	FirstName string    `json:"first_name" firestore:"firstName"`
	LastName  string    `json:"last_name" firestore:"lastName"`
	Email     string    `json:"email" firestore:"email"`
	ImageURL  string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	BannerURL string    `json:"banner_url,omitempty" firestore:"bannerUrl,omitempty"`
	Kind      UserKind  `json:"kind" firestore:"kind"`
	Phase     UserPhase `json:"phase" firestore:"phase"`
	Role      string    `json:"role,omitempty" firestore:"role,omitempty"`

	Profession string   `json:"profession" firestore:"profession"`
	Speciality string   `json:"speciality,omitempty" firestore:"speciality,omitempty"`
	Country    string   `json:"country,omitempty" firestore:"country,omitempty"`
	City       string   `json:"city,omitempty" firestore:"city,omitempty"`
	Biography  string   `json:"biography,omitempty" firestore:"biography,omitempty"`
	Website    string   `json:"website,omitempty" firestore:"website,omitempty"`
	Hobbies    []string `json:"hobbies,omitempty" firestore:"hobbies,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`

	Stats *UserStats `json:"stats,omitempty" firestore:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) Name() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserStats is derived from count aggregations, never stored.
type UserStats struct {
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	Connections int64 `json:"connections"`
	Posts       int64 `json:"posts"`
	Cases       int64 `json:"cases"`
}
