// Package guard decides, for a requested view and the current session state,
// whether to render, redirect to sign-in, show access-denied, or hold while
// the persisted session is still being read. The policy lives in one place
// instead of per-view conditionals so it can be tested in isolation.
package guard

import (
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/session"
)

// Tier is the access level a view declares for itself.
type Tier int

const (
	Public Tier = iota
	AnyAuthenticated
	AdminOnly
)

func (t Tier) String() string {
	switch t {
	case AnyAuthenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "public"
	}
}

// Outcome is the guard's decision for one view request.
type Outcome int

const (
	// RenderView: the session satisfies the tier.
	RenderView Outcome = iota
	// RedirectToSignIn: the tier requires authentication and there is none.
	RedirectToSignIn
	// RenderAccessDenied: authenticated, but the role is insufficient. This is
	// the user-visible presentation, not a separate error path.
	RenderAccessDenied
	// Pending: the persisted session has not been read yet. Non-public views
	// must not flash a redirect before that resolves.
	Pending
)

func (o Outcome) String() string {
	switch o {
	case RedirectToSignIn:
		return "redirect-to-sign-in"
	case RenderAccessDenied:
		return "access-denied"
	case Pending:
		return "pending"
	default:
		return "render"
	}
}

// Well-known view routes used by home resolution and the denied screen.
const (
	SignInRoute        = "/login"
	DashboardRoute     = "/dashboard"
	AdminOverviewRoute = "/admin/dashboard"
)

// Evaluate applies the policy table to one request. role is only consulted
// when state is Authenticated.
func Evaluate(tier Tier, state session.State, role models.Role) Outcome {
	if tier == Public {
		return RenderView
	}
	switch state {
	case session.Unresolved:
		return Pending
	case session.Anonymous:
		return RedirectToSignIn
	}
	if tier == AdminOnly && role != models.RoleAdmin {
		return RenderAccessDenied
	}
	return RenderView
}

// HomeView resolves the distinguished home route by role: administrators are
// always sent to the admin overview, never the end-user dashboard. This takes
// precedence over normal guard evaluation for the home route.
func HomeView(state session.State, role models.Role) string {
	switch state {
	case session.Authenticated:
		if role == models.RoleAdmin {
			return AdminOverviewRoute
		}
		return DashboardRoute
	case session.Anonymous:
		return SignInRoute
	default:
		return ""
	}
}
