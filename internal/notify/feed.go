package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

// Feed is an append-only in-memory notification store. Records are kept
// newest-first and are never evicted; the only mutation is flipping the
// read flag. All access happens on the UI event loop, so no locking.
type Feed struct {
	items []model.Notification
}

// NewFeed creates a feed seeded with the fixed welcome record.
func NewFeed() *Feed {
	f := &Feed{}
	f.Add("Welcome", "Create a delivery or accept a job to start tracking updates.")
	return f
}

// Add prepends a new unread record with a fresh id and current timestamp.
func (f *Feed) Add(title, body string) model.Notification {
	n := model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		Read:      false,
		CreatedAt: time.Now(),
	}
	f.items = append([]model.Notification{n}, f.items...)
	return n
}

// Items returns the records newest-first. The returned slice is a copy;
// mutating it does not affect the feed.
func (f *Feed) Items() []model.Notification {
	out := make([]model.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// MarkRead flips the matching record to read. Unknown ids are a no-op.
func (f *Feed) MarkRead(id string) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return
		}
	}
}

// MarkAllRead flips every record to read. Idempotent.
func (f *Feed) MarkAllRead() {
	for i := range f.items {
		f.items[i].Read = true
	}
}

// UnreadCount counts unread records. Derived on every call so it can
// never drift from the records themselves.
func (f *Feed) UnreadCount() int {
	count := 0
	for i := range f.items {
		if !f.items[i].Read {
			count++
		}
	}
	return count
}

// Len returns the total number of records.
func (f *Feed) Len() int {
	return len(f.items)
}
