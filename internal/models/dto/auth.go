package dto

import "github.com/smartpark/parking-portal/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type PhoneRequest struct {
	Phone string `json:"phone"`
}

// SessionResponse is returned by every operation that starts or refreshes a
// session.
type SessionResponse struct {
	Token      string             `json:"token"`
	User       models.SessionUser `json:"user"`
	NeedsPhone bool               `json:"needsPhone"`
}
