package entity

import "time"

type News struct {
	ID        string    `json:"id" firestore:"id"`
	Title     string    `json:"title" firestore:"title"`
	Summary   string    `json:"summary" firestore:"summary"`
	URL       string    `json:"url" firestore:"url"`
	ImageURL  string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Category  string    `json:"category" firestore:"category"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
