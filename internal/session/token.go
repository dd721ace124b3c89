package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smartpark/parking-portal/internal/models"
)

// TokenClaims are the fields encoded into the session token: id, email, role
// and a nominal expiry. The token is unsigned (alg "none") and never verified;
// it exists as bearer evidence for the screens, not as a security boundary.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// EncodeToken serializes the session claims for user into an unsigned token
// expiring ttl from now.
func EncodeToken(user models.SessionUser, ttl time.Duration, now time.Time) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	return token.SignedString(jwt.UnsafeAllowNoneSignatureType)
}

// DecodeToken parses a session token without verifying signature or expiry.
// The expiry inside is data, not logic: a restored session with a nominally
// expired token is still a session.
func DecodeToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode session token: %w", err)
	}
	return claims, nil
}
