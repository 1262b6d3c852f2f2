package session

import (
	"testing"

	"github.com/99designs/keyring"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(keyring.NewArrayKeyring(nil))
}

func TestStoreReadEmpty(t *testing.T) {
	s := newTestStore(t)

	sess := s.Read()
	if sess.Authenticated() {
		t.Fatalf("expected unauthenticated session from empty store")
	}
	if sess.User != nil {
		t.Fatalf("expected nil user, got %+v", sess.User)
	}
	if s.Token() != "" {
		t.Fatalf("expected empty token, got %q", s.Token())
	}
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	user := &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCourier}
	if err := s.Write("tok-123", user); err != nil {
		t.Fatalf("write: %v", err)
	}

	sess := s.Read()
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess.Token != "tok-123" {
		t.Fatalf("token = %q, want tok-123", sess.Token)
	}
	if sess.User == nil || sess.User.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", sess.User)
	}
	if sess.Role() != model.RoleCourier {
		t.Fatalf("role = %q, want courier", sess.Role())
	}
}

func TestStoreWriteTokenOnly(t *testing.T) {
	s := newTestStore(t)

	if err := s.Write("tok-1", nil); err != nil {
		t.Fatalf("write: %v", err)
	}

	sess := s.Read()
	if !sess.Authenticated() {
		t.Fatalf("token alone should authenticate")
	}
	if sess.User != nil {
		t.Fatalf("expected nil user")
	}
	if sess.Role() != "" {
		t.Fatalf("role without user should be empty, got %q", sess.Role())
	}
}

func TestStoreCorruptUserTreatedAsAbsent(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	s := NewStore(ring)

	if err := s.Write("tok-1", &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCustomer}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ring.Set(keyring.Item{Key: keyUser, Data: []byte("{not json")}); err != nil {
		t.Fatalf("corrupt user record: %v", err)
	}

	sess := s.Read()
	if !sess.Authenticated() {
		t.Fatalf("token should still authenticate")
	}
	if sess.User != nil {
		t.Fatalf("corrupt user record should read as absent, got %+v", sess.User)
	}
}

func TestStoreClear(t *testing.T) {
	s := newTestStore(t)

	if err := s.Write("tok-1", &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCustomer}); err != nil {
		t.Fatalf("write: %v", err)
	}
	s.Clear()

	if s.IsAuthenticated() {
		t.Fatalf("expected unauthenticated after clear")
	}
	if sess := s.Read(); sess.User != nil {
		t.Fatalf("expected no user after clear")
	}

	// Clearing an already-empty store must not fail.
	s.Clear()
}
