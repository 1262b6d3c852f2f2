package notify

import "testing"

func TestNewFeedSeedsWelcome(t *testing.T) {
	f := NewFeed()

	items := f.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 seeded record, got %d", len(items))
	}
	if items[0].Title != "Welcome" {
		t.Errorf("title = %q, want Welcome", items[0].Title)
	}
	if items[0].Read {
		t.Errorf("seeded record should start unread")
	}
	if f.UnreadCount() != 1 {
		t.Errorf("unread = %d, want 1", f.UnreadCount())
	}
}

func TestAddPrependsNewestFirst(t *testing.T) {
	f := NewFeed()
	f.Add("first", "body one")
	f.Add("second", "body two")

	items := f.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 records, got %d", len(items))
	}
	if items[0].Title != "second" || items[1].Title != "first" || items[2].Title != "Welcome" {
		t.Errorf("wrong order: %q, %q, %q", items[0].Title, items[1].Title, items[2].Title)
	}
	if items[0].ID == items[1].ID {
		t.Errorf("records must get distinct ids")
	}
}

func TestMarkRead(t *testing.T) {
	f := NewFeed()
	n := f.Add("update", "body")

	f.MarkRead(n.ID)
	if f.UnreadCount() != 1 {
		t.Errorf("unread = %d, want 1 (welcome record)", f.UnreadCount())
	}

	// Marking again and marking unknown ids change nothing.
	f.MarkRead(n.ID)
	f.MarkRead("no-such-id")
	if f.UnreadCount() != 1 {
		t.Errorf("unread = %d after no-op marks, want 1", f.UnreadCount())
	}
}

func TestMarkAllRead(t *testing.T) {
	f := NewFeed()
	f.Add("a", "1")
	f.Add("b", "2")

	f.MarkAllRead()
	if f.UnreadCount() != 0 {
		t.Errorf("unread = %d, want 0", f.UnreadCount())
	}
	if f.Len() != 3 {
		t.Errorf("len = %d, records must never be removed", f.Len())
	}

	f.MarkAllRead()
	if f.UnreadCount() != 0 {
		t.Errorf("mark all read must be idempotent")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	f := NewFeed()
	items := f.Items()
	items[0].Read = true

	if f.UnreadCount() != 1 {
		t.Errorf("mutating the returned slice must not affect the feed")
	}
}
