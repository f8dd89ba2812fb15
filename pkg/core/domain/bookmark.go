package domain

import "time"

// Bookmark is a saved link owned by a single user
type Bookmark struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	URL       string    `json:"url" yaml:"url"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	OwnerID   string    `json:"user_id" yaml:"user_id"` // Owner reference, used for access scoping
}
