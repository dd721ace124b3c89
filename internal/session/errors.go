package session

import "errors"

// Typed failures returned by Store operations. None of them are retried; the
// HTTP layer maps each to a status code and message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrIdentityNotFound   = errors.New("user not found")

	// ErrMalformedState marks persisted session or identity data that fails to
	// parse. It is recovered inside the store: the corrupted keys are cleared
	// and the state resets to Anonymous.
	ErrMalformedState = errors.New("malformed persisted state")
)
