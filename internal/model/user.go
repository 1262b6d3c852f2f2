package model

// Role is the authorization tag attached to an account. It drives both
// navigation and route access.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
)

// ValidRole reports whether r is one of the roles the backend accepts.
func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleCourier
}

// User is the identity returned by the auth endpoints and persisted
// alongside the token.
type User struct {
	// ID is the backend identifier for the account.
	ID string `json:"id"`

	// Email is the sign-in address.
	Email string `json:"email"`

	// Role is the account role, one of customer or courier.
	Role Role `json:"role"`
}
