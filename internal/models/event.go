package models

import "time"

// Blog event types.
const (
	BlogCreated = "blog.created"
	BlogUpdated = "blog.updated"
	BlogDeleted = "blog.deleted"
)

// BlogEvent announces a change to a blog.
type BlogEvent struct {
	Type   string    `json:"type"`
	BlogID string    `json:"blog_id"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}
