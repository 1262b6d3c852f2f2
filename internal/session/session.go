package session

import "github.com/hnguyen/delivery-tracker/internal/model"

// Session is the client's belief about the current authentication and
// identity state. A session with no token is unauthenticated regardless
// of the user record it carries.
type Session struct {
	Token string
	User  *model.User
}

// Authenticated reports whether a token is present. It does not validate
// the token's authenticity or expiry.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the session's role, or the empty string when no user
// record is present.
func (s Session) Role() model.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
