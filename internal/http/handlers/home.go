package handlers

import (
	"net/http"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/session"
)

// HomeHandler resolves the distinguished home route. Administrators always
// land on the admin overview, never the end-user dashboard; this redirect
// runs before any guard evaluation.
type HomeHandler struct {
	sessions *session.Store
}

// NewHomeHandler constructs the handler.
func NewHomeHandler(sessions *session.Store) *HomeHandler {
	return &HomeHandler{sessions: sessions}
}

// Register wires the home route into the mux.
func (h *HomeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handle)
}

func (h *HomeHandler) handle(w http.ResponseWriter, r *http.Request) {
	target := guard.HomeView(h.sessions.State(), h.sessions.Role())
	if target == "" {
		w.Header().Set("Retry-After", "1")
		respond.Error(w, http.StatusServiceUnavailable, "session not resolved yet")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}
