package middleware

import (
	"net/http"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/session"
)

// Guard gates a view behind its declared access tier. The guard's three
// outcomes map onto HTTP: render passes through, redirect-to-sign-in becomes
// 401 pointing at the sign-in view, access-denied becomes 403 with a path
// back to the user dashboard. Pending (persisted session not read yet) asks
// the caller to retry rather than guessing either way.
func Guard(sessions *session.Store, tier guard.Tier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outcome := guard.Evaluate(tier, sessions.State(), sessions.Role())
		switch outcome {
		case guard.RenderView:
			next.ServeHTTP(w, r)
		case guard.RedirectToSignIn:
			respond.ErrorRedirect(w, http.StatusUnauthorized, "sign in required", guard.SignInRoute)
		case guard.RenderAccessDenied:
			respond.ErrorRedirect(w, http.StatusForbidden,
				"you don't have permission to access this page, admin access required",
				guard.DashboardRoute)
		case guard.Pending:
			w.Header().Set("Retry-After", "1")
			respond.Error(w, http.StatusServiceUnavailable, "session not resolved yet")
		}
	})
}

// GuardFunc is Guard for bare handler funcs.
func GuardFunc(sessions *session.Store, tier guard.Tier, next http.HandlerFunc) http.Handler {
	return Guard(sessions, tier, next)
}
