package model

import "time"

// Notification represents an update surfaced to the user in the
// notification feed, typically describing realtime delivery activity.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Title is the short heading shown in the feed.
	Title string `json:"title"`

	// Body is the human-readable notification text.
	Body string `json:"body"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
