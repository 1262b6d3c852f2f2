package session

import (
	"encoding/json"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

const serviceName = "deliverytrack"

const (
	keyToken = "auth-token"
	keyUser  = "auth-user"
)

// Store persists the session across restarts as two entries in the system
// keyring: the raw token string and the user record serialized as JSON.
type Store struct {
	ring keyring.Keyring
}

// Open returns a Store backed by the system keyring, falling back to an
// encrypted file backend where no native keychain is available.
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/deliverytrack/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("deliverytrack-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Store{ring: ring}, nil
}

// NewStore wraps an existing keyring. Tests pass keyring.NewArrayKeyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Read returns the persisted session. A missing token yields an
// unauthenticated session; a corrupt user record is treated as absent
// rather than an error.
func (s *Store) Read() Session {
	var sess Session

	if item, err := s.ring.Get(keyToken); err == nil {
		sess.Token = string(item.Data)
	}

	item, err := s.ring.Get(keyUser)
	if err != nil {
		return sess
	}
	var user model.User
	if err := json.Unmarshal(item.Data, &user); err != nil {
		return sess
	}
	sess.User = &user
	return sess
}

// Write persists the given fields. An empty token or nil user leaves the
// corresponding entry as it was.
func (s *Store) Write(token string, user *model.User) error {
	if token != "" {
		err := s.ring.Set(keyring.Item{Key: keyToken, Data: []byte(token)})
		if err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
	}

	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encoding user: %w", err)
		}
		if err := s.ring.Set(keyring.Item{Key: keyUser, Data: data}); err != nil {
			return fmt.Errorf("storing user: %w", err)
		}
	}

	return nil
}

// Clear removes both entries. Removal of an entry that does not exist is
// not an error; Clear never fails.
func (s *Store) Clear() {
	_ = s.ring.Remove(keyToken)
	_ = s.ring.Remove(keyUser)
}

// IsAuthenticated reports whether a token is currently persisted.
func (s *Store) IsAuthenticated() bool {
	return s.Read().Authenticated()
}

// Token returns the persisted token, or the empty string.
func (s *Store) Token() string {
	return s.Read().Token
}
