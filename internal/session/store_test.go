package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpark/parking-portal/internal/kvstore/memory"
	"github.com/smartpark/parking-portal/internal/models"
)

func newResolvedStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	store := New(kv, 24*time.Hour)
	require.NoError(t, store.Resolve(context.Background()))
	return store, kv
}

func TestResolveSeedsAndStartsAnonymous(t *testing.T) {
	store, _ := newResolvedStore(t)

	assert.Equal(t, Anonymous, store.State())
	assert.False(t, store.IsAuthenticated())
	_, ok := store.CurrentUser()
	assert.False(t, ok)
}

func TestSignInDetectsRoleAndIgnoresEmailCase(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	user, err := store.SignIn(ctx, "ADMIN@Parking.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "System Admin", user.Name)
	assert.True(t, store.IsAdmin())
	assert.False(t, store.IsUser())
	assert.False(t, user.LoginTime.IsZero())

	token, ok := store.Token()
	require.True(t, ok)
	claims, err := DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@parking.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestSignInRejectsWrongPassword(t *testing.T) {
	store, _ := newResolvedStore(t)

	_, err := store.SignIn(context.Background(), "user@parking.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, Anonymous, store.State())
}

func TestRoleRestrictedSignInNeverCrossesRoles(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	// Correct credentials, wrong tier: both directions must fail.
	_, err := store.SignInAdmin(ctx, "user@parking.com", "user123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.SignInUser(ctx, "admin@parking.com", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, Anonymous, store.State())

	user, err := store.SignInUser(ctx, "user@parking.com", "user123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestRegisterAutoLoginAndRoundTrip(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	user, err := store.Register(ctx, "new@example.com", "secret", "New Driver", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, store.IsAuthenticated())

	require.NoError(t, store.SignOut(ctx))

	again, err := store.SignIn(ctx, "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, again.Role)
	assert.Equal(t, user.ID, again.ID)
}

func TestRegisterRejectsDuplicateEmailCaseInsensitively(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "driver@example.com", "pw1", "Driver One", "")
	require.NoError(t, err)
	require.NoError(t, store.SignOut(ctx))

	_, err = store.Register(ctx, "DRIVER@Example.COM", "pw2", "Driver Two", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The seed admin email is protected the same way.
	_, err = store.Register(ctx, "Admin@Parking.com", "pw3", "Impostor", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	first, err := store.Register(ctx, "a@example.com", "pw", "A", "")
	require.NoError(t, err)
	require.NoError(t, store.SignOut(ctx))

	second, err := store.Register(ctx, "b@example.com", "pw", "B", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID+1, second.ID)
}

func TestNeedsPhoneLifecycle(t *testing.T) {
	store, kv := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "nophone@example.com", "pw", "No Phone", "")
	require.NoError(t, err)
	assert.True(t, store.NeedsPhone())

	updated, err := store.UpdatePhone(ctx, "555-0100")
	require.NoError(t, err)
	assert.False(t, store.NeedsPhone())
	assert.Equal(t, "555-0100", updated.Phone)

	// The identity record itself was updated: a fresh store over the same
	// backing data sees the phone at sign-in.
	fresh := New(kv, 24*time.Hour)
	require.NoError(t, fresh.Resolve(ctx))
	user, err := fresh.SignIn(ctx, "nophone@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", user.Phone)
	assert.False(t, fresh.NeedsPhone())
}

func TestRegisterWithPhoneDoesNotFlag(t *testing.T) {
	store, _ := newResolvedStore(t)

	_, err := store.Register(context.Background(), "p@example.com", "pw", "P", "+1 555 0101")
	require.NoError(t, err)
	assert.False(t, store.NeedsPhone())
}

func TestAdminSignInNeverFlagsPhone(t *testing.T) {
	store, _ := newResolvedStore(t)

	// The seed admin has no phone on record.
	_, err := store.SignInAdmin(context.Background(), "admin@parking.com", "admin123")
	require.NoError(t, err)
	assert.False(t, store.NeedsPhone())
}

func TestUpdatePhoneClearsFlagEvenWhenEmpty(t *testing.T) {
	store, _ := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "q@example.com", "pw", "Q", "")
	require.NoError(t, err)
	require.True(t, store.NeedsPhone())

	// Explicitly completing the step with an empty value still clears it.
	_, err = store.UpdatePhone(ctx, "")
	require.NoError(t, err)
	assert.False(t, store.NeedsPhone())
}

func TestUpdatePhoneRequiresSession(t *testing.T) {
	store, _ := newResolvedStore(t)

	_, err := store.UpdatePhone(context.Background(), "555-0100")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSessionSurvivesReopen(t *testing.T) {
	store, kv := newResolvedStore(t)
	ctx := context.Background()

	signedIn, err := store.SignIn(ctx, "user@parking.com", "user123")
	require.NoError(t, err)

	reopened := New(kv, 24*time.Hour)
	assert.Equal(t, Unresolved, reopened.State())
	require.NoError(t, reopened.Resolve(ctx))

	assert.Equal(t, Authenticated, reopened.State())
	restored, ok := reopened.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, signedIn.ID, restored.ID)
	assert.Equal(t, signedIn.Email, restored.Email)
}

func TestSignOutLeavesNoStaleSession(t *testing.T) {
	store, kv := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.SignIn(ctx, "user@parking.com", "user123")
	require.NoError(t, err)
	require.NoError(t, store.SignOut(ctx))

	assert.Equal(t, Anonymous, store.State())
	_, ok := store.Token()
	assert.False(t, ok)

	reopened := New(kv, 24*time.Hour)
	require.NoError(t, reopened.Resolve(ctx))
	assert.Equal(t, Anonymous, reopened.State())

	// The identity collection is untouched: signing back in still works.
	_, err = reopened.SignIn(ctx, "user@parking.com", "user123")
	assert.NoError(t, err)
}

func TestResolveClearsMalformedSession(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "user", "{not json"))
	require.NoError(t, kv.Set(ctx, "token", "garbage"))

	store := New(kv, 24*time.Hour)
	require.NoError(t, store.Resolve(ctx))

	assert.Equal(t, Anonymous, store.State())
	_, err := kv.Get(ctx, "user")
	assert.Error(t, err)
	_, err = kv.Get(ctx, "token")
	assert.Error(t, err)
}

func TestResolveDiscardsHalfSession(t *testing.T) {
	store, kv := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.SignIn(ctx, "user@parking.com", "user123")
	require.NoError(t, err)
	require.NoError(t, kv.Delete(ctx, "token"))

	reopened := New(kv, 24*time.Hour)
	require.NoError(t, reopened.Resolve(ctx))
	assert.Equal(t, Anonymous, reopened.State())
}

func TestResolveReseedsMalformedIdentities(t *testing.T) {
	kv := memory.New()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "parking_users", "][上"))

	store := New(kv, 24*time.Hour)
	require.NoError(t, store.Resolve(ctx))

	_, err := store.SignIn(ctx, "admin@parking.com", "admin123")
	assert.NoError(t, err)
}

func TestRestoredUserSessionWithoutPhoneFlags(t *testing.T) {
	store, kv := newResolvedStore(t)
	ctx := context.Background()

	_, err := store.Register(ctx, "r@example.com", "pw", "R", "")
	require.NoError(t, err)

	reopened := New(kv, 24*time.Hour)
	require.NoError(t, reopened.Resolve(ctx))
	assert.True(t, reopened.NeedsPhone())
}
