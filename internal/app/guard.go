package app

import (
	"github.com/hnguyen/delivery-tracker/internal/model"
	"github.com/hnguyen/delivery-tracker/internal/session"
)

// Decision is the outcome of a route guard check.
type Decision struct {
	Allow bool
	// Redirect is the view to land on when access is denied: the login
	// form for signed-out users, the dashboard for wrong-role users.
	Redirect ViewState
}

// requiredRoles maps each view to the roles allowed to enter it. Views
// absent from the map are public. An empty slice means any signed-in
// account.
var requiredRoles = map[ViewState][]model.Role{
	ViewMyDeliveries:  {model.RoleCustomer},
	ViewCreate:        {model.RoleCustomer},
	ViewJobs:          {model.RoleCourier},
	ViewAssigned:      {model.RoleCourier},
	ViewNotifications: {},
	ViewDetail:        {},
}

// Evaluate checks whether the session may enter the view. The check runs
// on every navigation, never once per session: a cleared token denies
// guarded views immediately, with no grace period.
func Evaluate(sess session.Session, view ViewState) Decision {
	required, guarded := requiredRoles[view]
	if !guarded {
		return Decision{Allow: true}
	}

	if !sess.Authenticated() {
		return Decision{Allow: false, Redirect: ViewLogin}
	}
	if !session.HasRole(sess, required) {
		return Decision{Allow: false, Redirect: ViewDashboard}
	}
	return Decision{Allow: true}
}
