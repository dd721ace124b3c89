// Package session owns the authenticated-identity state machine: sign-in as
// user or admin, self-registration, sign-out, and the one-time "phone number
// still missing" flag. Identities and the current session live in an injected
// key-value store and every mutation is persisted before it returns, so a
// reload always reflects the last completed operation.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/smartpark/parking-portal/internal/kvstore"
	"github.com/smartpark/parking-portal/internal/models"
)

// State of the session machine. Unresolved lasts from construction until
// Resolve has read the persisted store.
type State int

const (
	Unresolved State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Storage keys, kept compatible with the browser client this portal replaces.
const (
	usersKey        = "parking_users"
	sessionUserKey  = "user"
	sessionTokenKey = "token"
)

// Seed identities written on first start. Registration can only ever add
// USER records, so these are the only administrators.
func seedIdentities() []models.Identity {
	return []models.Identity{
		{ID: 1, Email: "admin@parking.com", Password: "admin123", Name: "System Admin", Role: models.RoleAdmin},
		{ID: 2, Email: "operator@parking.com", Password: "operator123", Name: "Lot Operator", Role: models.RoleAdmin},
		{ID: 3, Email: "user@parking.com", Password: "user123", Name: "Demo User", Role: models.RoleUser, Phone: "+91 9876543210"},
	}
}

// Store is the session state machine. It is the sole writer of the session
// and identity keys in the backing store; the mutex keeps each operation
// run-to-completion under concurrent handlers.
type Store struct {
	kv  kvstore.Store
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	state      State
	user       *models.SessionUser
	token      string
	needsPhone bool
}

// Option tweaks Store construction.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store in the Unresolved state. Call Resolve before serving.
func New(kv kvstore.Store, tokenTTL time.Duration, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		ttl:   tokenTTL,
		now:   time.Now,
		state: Unresolved,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve seeds the identity collection on first start and restores a
// persisted session if one exists. Malformed persisted data is not an error:
// the corrupted keys are cleared and the store comes up Anonymous.
func (s *Store) Resolve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.loadIdentities(ctx); err != nil {
		return err
	}

	rawUser, err := s.kv.Get(ctx, sessionUserKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		s.state = Anonymous
		return nil
	}
	if err != nil {
		return fmt.Errorf("read persisted session: %w", err)
	}
	rawToken, err := s.kv.Get(ctx, sessionTokenKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		// Half a session is no session.
		return s.discardSession(ctx)
	}
	if err != nil {
		return fmt.Errorf("read persisted token: %w", err)
	}

	var user models.SessionUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		log.Printf("session: %v, clearing persisted session: %v", ErrMalformedState, err)
		return s.discardSession(ctx)
	}
	if _, err := DecodeToken(rawToken); err != nil {
		log.Printf("session: %v, clearing persisted token: %v", ErrMalformedState, err)
		return s.discardSession(ctx)
	}

	s.state = Authenticated
	s.user = &user
	s.token = rawToken
	s.needsPhone = user.Role == models.RoleUser && user.Phone == ""
	return nil
}

// SignIn authenticates against the identity collection with the role detected
// from whichever record matches.
func (s *Store) SignIn(ctx context.Context, email, password string) (models.SessionUser, error) {
	return s.signIn(ctx, email, password, "")
}

// SignInUser authenticates and additionally requires a USER record; correct
// admin credentials still fail with ErrInvalidCredentials.
func (s *Store) SignInUser(ctx context.Context, email, password string) (models.SessionUser, error) {
	return s.signIn(ctx, email, password, models.RoleUser)
}

// SignInAdmin is the ADMIN counterpart of SignInUser.
func (s *Store) SignInAdmin(ctx context.Context, email, password string) (models.SessionUser, error) {
	return s.signIn(ctx, email, password, models.RoleAdmin)
}

func (s *Store) signIn(ctx context.Context, email, password string, want models.Role) (models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identities, err := s.loadIdentities(ctx)
	if err != nil {
		return models.SessionUser{}, err
	}

	for _, identity := range identities {
		if !strings.EqualFold(identity.Email, email) || identity.Password != password {
			continue
		}
		if want != "" && identity.Role != want {
			continue
		}
		return s.startSession(ctx, identity)
	}
	return models.SessionUser{}, ErrInvalidCredentials
}

// Register appends a new USER identity and signs it in immediately. Emails
// are unique case-insensitively; uniqueness is checked before any write, so a
// rejected registration leaves no partial state.
func (s *Store) Register(ctx context.Context, email, password, name, phone string) (models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identities, err := s.loadIdentities(ctx)
	if err != nil {
		return models.SessionUser{}, err
	}
	for _, identity := range identities {
		if strings.EqualFold(identity.Email, email) {
			return models.SessionUser{}, ErrEmailTaken
		}
	}

	identity := models.Identity{
		ID:       len(identities) + 1,
		Email:    email,
		Password: password,
		Name:     name,
		Role:     models.RoleUser,
		Phone:    phone,
	}
	identities = append(identities, identity)
	if err := s.saveIdentities(ctx, identities); err != nil {
		return models.SessionUser{}, err
	}

	return s.startSession(ctx, identity)
}

// UpdatePhone sets the phone number on both the identity record and the
// session snapshot, and clears the needs-phone flag unconditionally: the user
// explicitly completed the step even if the value is empty.
func (s *Store) UpdatePhone(ctx context.Context, phone string) (models.SessionUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.SessionUser{}, ErrNotAuthenticated
	}

	identities, err := s.loadIdentities(ctx)
	if err != nil {
		return models.SessionUser{}, err
	}
	index := -1
	for i, identity := range identities {
		if identity.ID == s.user.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return models.SessionUser{}, ErrIdentityNotFound
	}

	identities[index].Phone = phone
	if err := s.saveIdentities(ctx, identities); err != nil {
		return models.SessionUser{}, err
	}

	updated := *s.user
	updated.Phone = phone
	if err := s.persistSessionUser(ctx, updated); err != nil {
		return models.SessionUser{}, err
	}
	s.user = &updated
	s.needsPhone = false
	return updated, nil
}

// SignOut clears the persisted and in-memory session. It always succeeds on a
// healthy store and never touches the identity collection.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discardSession(ctx)
}

// State reports the current machine state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns the active session snapshot, if any.
func (s *Store) CurrentUser() (models.SessionUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.SessionUser{}, false
	}
	return *s.user, true
}

// Token returns the active session token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Authenticated
}

// IsAdmin reports whether the active session carries the ADMIN role.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == models.RoleAdmin
}

// IsUser reports whether the active session carries the USER role.
func (s *Store) IsUser() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.Role == models.RoleUser
}

// NeedsPhone reports whether the session still owes a phone number.
func (s *Store) NeedsPhone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsPhone
}

// Role returns the active session's role, or "" when anonymous.
func (s *Store) Role() models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// startSession persists and installs a session for identity. Callers hold the
// mutex.
func (s *Store) startSession(ctx context.Context, identity models.Identity) (models.SessionUser, error) {
	user := identity.Snapshot(s.now())

	token, err := EncodeToken(user, s.ttl, s.now())
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("encode session token: %w", err)
	}
	if err := s.persistSessionUser(ctx, user); err != nil {
		return models.SessionUser{}, err
	}
	if err := s.kv.Set(ctx, sessionTokenKey, token); err != nil {
		return models.SessionUser{}, fmt.Errorf("persist session token: %w", err)
	}

	s.state = Authenticated
	s.user = &user
	s.token = token
	s.needsPhone = user.Role == models.RoleUser && user.Phone == ""
	return user, nil
}

func (s *Store) persistSessionUser(ctx context.Context, user models.SessionUser) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.kv.Set(ctx, sessionUserKey, string(encoded)); err != nil {
		return fmt.Errorf("persist session user: %w", err)
	}
	return nil
}

func (s *Store) discardSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, sessionUserKey); err != nil {
		return fmt.Errorf("clear session user: %w", err)
	}
	if err := s.kv.Delete(ctx, sessionTokenKey); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	s.state = Anonymous
	s.user = nil
	s.token = ""
	s.needsPhone = false
	return nil
}

// loadIdentities reads the identity collection, seeding it on first use and
// reseeding when the stored JSON is unreadable. Callers hold the mutex.
func (s *Store) loadIdentities(ctx context.Context) ([]models.Identity, error) {
	raw, err := s.kv.Get(ctx, usersKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		seeds := seedIdentities()
		if err := s.saveIdentities(ctx, seeds); err != nil {
			return nil, err
		}
		return seeds, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identities: %w", err)
	}

	var identities []models.Identity
	if err := json.Unmarshal([]byte(raw), &identities); err != nil {
		log.Printf("session: %v, reseeding identities: %v", ErrMalformedState, err)
		seeds := seedIdentities()
		if err := s.saveIdentities(ctx, seeds); err != nil {
			return nil, err
		}
		return seeds, nil
	}
	return identities, nil
}

func (s *Store) saveIdentities(ctx context.Context, identities []models.Identity) error {
	encoded, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("encode identities: %w", err)
	}
	if err := s.kv.Set(ctx, usersKey, string(encoded)); err != nil {
		return fmt.Errorf("persist identities: %w", err)
	}
	return nil
}
