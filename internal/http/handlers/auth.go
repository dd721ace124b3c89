package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/smartpark/parking-portal/internal/guard"
	"github.com/smartpark/parking-portal/internal/http/respond"
	"github.com/smartpark/parking-portal/internal/middleware"
	"github.com/smartpark/parking-portal/internal/models"
	"github.com/smartpark/parking-portal/internal/models/dto"
	"github.com/smartpark/parking-portal/internal/session"
)

// AuthHandler owns the sign-in, registration, sign-out, and profile
// endpoints over the session store.
type AuthHandler struct {
	sessions *session.Store
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register attaches auth routes to the mux. Sign-in and registration are
// public by nature; the profile endpoints require a session.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/login/user", h.handleLoginUser)
	mux.HandleFunc("POST /api/auth/login/admin", h.handleLoginAdmin)
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.Handle("GET /api/auth/me", middleware.GuardFunc(h.sessions, guard.AnyAuthenticated, h.handleMe))
	mux.Handle("PUT /api/auth/phone", middleware.GuardFunc(h.sessions, guard.AnyAuthenticated, h.handlePhone))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.sessions.SignIn)
}

func (h *AuthHandler) handleLoginUser(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.sessions.SignInUser)
}

func (h *AuthHandler) handleLoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.sessions.SignInAdmin)
}

type signInFunc func(ctx context.Context, email, password string) (models.SessionUser, error)

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, signIn signInFunc) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := signIn(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", h.sessionResponse(user))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respond.Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Password == "" || req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name and password are required")
		return
	}

	user, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.Name, strings.TrimSpace(req.Phone))
	if err != nil {
		h.fail(w, "register", err)
		return
	}
	respond.JSON(w, http.StatusCreated, "registration successful", h.sessionResponse(user))
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		log.Printf("logout failed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	respond.JSON(w, http.StatusOK, "signed out", nil)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		respond.Error(w, http.StatusUnauthorized, session.ErrNotAuthenticated.Error())
		return
	}
	respond.JSON(w, http.StatusOK, "current session", h.sessionResponse(user))
}

func (h *AuthHandler) handlePhone(w http.ResponseWriter, r *http.Request) {
	var req dto.PhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	user, err := h.sessions.UpdatePhone(r.Context(), strings.TrimSpace(req.Phone))
	if err != nil {
		h.fail(w, "update phone", err)
		return
	}
	respond.JSON(w, http.StatusOK, "phone updated", h.sessionResponse(user))
}

func (h *AuthHandler) sessionResponse(user models.SessionUser) dto.SessionResponse {
	token, _ := h.sessions.Token()
	return dto.SessionResponse{
		Token:      token,
		User:       user,
		NeedsPhone: h.sessions.NeedsPhone(),
	}
}

// fail maps the session store's typed errors onto HTTP statuses.
func (h *AuthHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrEmailTaken):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNotAuthenticated):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrIdentityNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
