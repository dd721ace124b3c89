package models

import "time"

// Role is the two-tier access level attached to every identity. ADMIN is a
// strict superset of USER for route access.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is a registered account as persisted in the identity collection.
// The password is stored verbatim: the whole credential scheme is a local
// simulation, not a security boundary.
type Identity struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// SessionUser is the identity snapshot held by an active session: everything
// the screens need minus the password, plus the login timestamp.
type SessionUser struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	LoginTime time.Time `json:"loginTime"`
}

// Snapshot builds the session view of an identity at login time.
func (i Identity) Snapshot(loginTime time.Time) SessionUser {
	return SessionUser{
		ID:        i.ID,
		Email:     i.Email,
		Name:      i.Name,
		Role:      i.Role,
		Phone:     i.Phone,
		LoginTime: loginTime,
	}
}

// IsAdmin reports whether the session belongs to an administrator.
func (u SessionUser) IsAdmin() bool { return u.Role == RoleAdmin }
