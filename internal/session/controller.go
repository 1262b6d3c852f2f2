package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/model"
)

// AuthError indicates that a login or register attempt was rejected.
// The session store is left untouched when it is returned.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// AuthAPI is the slice of the backend client the controller needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Register(ctx context.Context, email, password string, role model.Role) (api.AuthResponse, error)
}

// RegisterResult reports the outcome of Register. When the backend does
// not auto-sign-in, SignedIn is false and the caller must log in
// separately.
type RegisterResult struct {
	Session  Session
	SignedIn bool
}

// Controller performs login, register, and logout against the backend
// and keeps the Store in sync. All role checks read through the Store so
// they observe logouts immediately.
type Controller struct {
	store *Store
	api   AuthAPI
}

// NewController creates a Controller over the given store and auth API.
func NewController(store *Store, authAPI AuthAPI) *Controller {
	return &Controller{store: store, api: authAPI}
}

// Session returns the current persisted session.
func (c *Controller) Session() Session {
	return c.store.Read()
}

// Login authenticates and persists the resulting session. On failure the
// store is left untouched and an AuthError carries the backend's message.
func (c *Controller) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, &AuthError{Message: "email and password are required"}
	}

	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return Session{}, &AuthError{Message: err.Error()}
	}
	if resp.Token == "" {
		return Session{}, &AuthError{Message: "login response did not include a token"}
	}

	if err := c.store.Write(resp.Token, resp.User); err != nil {
		return Session{}, fmt.Errorf("persisting session: %w", err)
	}
	return Session{Token: resp.Token, User: resp.User}, nil
}

// Register creates an account. When the response carries a token the new
// session is persisted as in Login; otherwise the store is untouched and
// the result reports SignedIn=false.
func (c *Controller) Register(ctx context.Context, email, password string, role model.Role) (RegisterResult, error) {
	if email == "" || password == "" {
		return RegisterResult{}, &AuthError{Message: "email and password are required"}
	}
	if !model.ValidRole(role) {
		return RegisterResult{}, &AuthError{Message: fmt.Sprintf("invalid role %q", role)}
	}

	resp, err := c.api.Register(ctx, email, password, role)
	if err != nil {
		return RegisterResult{}, &AuthError{Message: err.Error()}
	}

	if resp.Token == "" {
		return RegisterResult{}, nil
	}

	if err := c.store.Write(resp.Token, resp.User); err != nil {
		return RegisterResult{}, fmt.Errorf("persisting session: %w", err)
	}
	return RegisterResult{
		Session:  Session{Token: resp.Token, User: resp.User},
		SignedIn: true,
	}, nil
}

// Logout clears the persisted session unconditionally.
func (c *Controller) Logout() {
	c.store.Clear()
}

// HasRole reports whether the current session satisfies the role
// requirement. An empty requirement is open access; an unauthenticated
// session fails every non-empty requirement.
func (c *Controller) HasRole(required ...model.Role) bool {
	return HasRole(c.store.Read(), required)
}

// HasRole is the pure form of the role check used by the route guard.
func HasRole(s Session, required []model.Role) bool {
	if len(required) == 0 {
		return true
	}
	if !s.Authenticated() {
		return false
	}
	role := s.Role()
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}
