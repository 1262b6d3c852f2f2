package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hnguyen/delivery-tracker/internal/api"
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/session"
	"github.com/hnguyen/delivery-tracker/tests/testutil"
)

// fakeAuthAPI scripts the backend responses for one test.
type fakeAuthAPI struct {
	loginResp    api.AuthResponse
	loginErr     error
	registerResp api.AuthResponse
	registerErr  error
}

func (f *fakeAuthAPI) Login(_ context.Context, _, _ string) (api.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, _, _ string, _ model.Role) (api.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func TestLoginPersistsSession(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{loginResp: api.AuthResponse{
		Token: "tok-1",
		User:  &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCustomer},
	}}
	c := session.NewController(store, backend)

	sess, err := c.Login(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "tok-1" {
		t.Fatalf("token = %q, want tok-1", sess.Token)
	}

	persisted := store.Read()
	if !persisted.Authenticated() || persisted.Token != "tok-1" {
		t.Fatalf("session not persisted: %+v", persisted)
	}
	if persisted.Role() != model.RoleCustomer {
		t.Fatalf("role = %q, want customer", persisted.Role())
	}
}

func TestLoginEmptyFieldsRejectedLocally(t *testing.T) {
	store := testutil.NewTestStore(t)
	c := session.NewController(store, &fakeAuthAPI{})

	_, err := c.Login(context.Background(), "", "secret1")
	if !session.IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must stay untouched on validation failure")
	}
}

func TestLoginBackendRejection(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{loginErr: errors.New("invalid credentials")}
	c := session.NewController(store, backend)

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	if !session.IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must stay untouched on rejection")
	}
}

func TestLoginMissingTokenIsError(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{loginResp: api.AuthResponse{
		User: &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCustomer},
	}}
	c := session.NewController(store, backend)

	if _, err := c.Login(context.Background(), "a@b.com", "secret1"); !session.IsAuthError(err) {
		t.Fatalf("expected AuthError for tokenless response, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must stay untouched")
	}
}

func TestRegisterWithAutoSignIn(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{registerResp: api.AuthResponse{
		Token: "tok-2",
		User:  &model.User{ID: "u2", Email: "c@d.com", Role: model.RoleCourier},
	}}
	c := session.NewController(store, backend)

	result, err := c.Register(context.Background(), "c@d.com", "secret1", model.RoleCourier)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !result.SignedIn {
		t.Fatalf("expected SignedIn=true")
	}
	if !store.IsAuthenticated() {
		t.Fatalf("expected persisted session")
	}
}

func TestRegisterWithoutToken(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{registerResp: api.AuthResponse{}}
	c := session.NewController(store, backend)

	result, err := c.Register(context.Background(), "c@d.com", "secret1", model.RoleCustomer)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.SignedIn {
		t.Fatalf("expected SignedIn=false when no token returned")
	}
	if store.IsAuthenticated() {
		t.Fatalf("store must stay untouched when registration does not sign in")
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	store := testutil.NewTestStore(t)
	c := session.NewController(store, &fakeAuthAPI{})

	if _, err := c.Register(context.Background(), "c@d.com", "secret1", model.Role("admin")); !session.IsAuthError(err) {
		t.Fatalf("expected AuthError for invalid role, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	store := testutil.NewTestStore(t)
	backend := &fakeAuthAPI{loginResp: api.AuthResponse{
		Token: "tok-1",
		User:  &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleCustomer},
	}}
	c := session.NewController(store, backend)

	if _, err := c.Login(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	c.Logout()

	if store.IsAuthenticated() {
		t.Fatalf("expected cleared session after logout")
	}
	// Logout on an already-cleared session is a no-op.
	c.Logout()
}

func TestHasRole(t *testing.T) {
	courier := session.Session{
		Token: "t",
		User:  &model.User{ID: "u", Email: "e", Role: model.RoleCourier},
	}
	anonymous := session.Session{}

	if !session.HasRole(anonymous, nil) {
		t.Errorf("empty requirement should allow anyone")
	}
	if session.HasRole(anonymous, []model.Role{model.RoleCustomer}) {
		t.Errorf("unauthenticated session must fail role checks")
	}
	if !session.HasRole(courier, []model.Role{model.RoleCourier}) {
		t.Errorf("courier should satisfy courier requirement")
	}
	if session.HasRole(courier, []model.Role{model.RoleCustomer}) {
		t.Errorf("courier must not satisfy customer requirement")
	}
	if !session.HasRole(courier, []model.Role{model.RoleCustomer, model.RoleCourier}) {
		t.Errorf("courier should satisfy a requirement listing both roles")
	}
}
