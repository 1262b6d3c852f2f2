package testutil

import (
	"testing"

	"github.com/99designs/keyring"

	"github.com/hnguyen/delivery-tracker/internal/session"
)

// NewTestStore creates a session store backed by an in-memory keyring.
// Nothing touches the system keychain.
func NewTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(keyring.NewArrayKeyring(nil))
}
