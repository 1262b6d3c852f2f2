package api

import (
	"context"

	"github.com/hnguyen/delivery-tracker/internal/model"
)

// AuthResponse is the payload returned by the login and register
// endpoints. Register may omit the token when the backend does not
// auto-sign-in new accounts.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// Login authenticates against POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	return resp, err
}

// Register creates an account against POST /auth/register.
func (c *Client) Register(ctx context.Context, email, password string, role model.Role) (AuthResponse, error) {
	var resp AuthResponse
	err := c.post(ctx, "/auth/register", registerRequest{Email: email, Password: password, Role: role}, &resp)
	return resp, err
}
