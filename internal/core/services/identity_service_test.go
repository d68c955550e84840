package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
)

func TestBootstrapSeedsAdministratorOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// newTestEnv already bootstrapped; a second run must not duplicate.
	require.NoError(t, env.identity.Bootstrap(ctx))

	token, user, err := env.identity.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsAdmin)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.identity.Register(ctx, "alice", "secret123", false)
	require.NoError(t, err)

	_, err = env.identity.Register(ctx, "alice", "othersecret", false)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.identity.Register(ctx, "ab", "secret123", false)
	assert.Error(t, err, "username below minimum length")

	_, err = env.identity.Register(ctx, "alice", "short", false)
	assert.Error(t, err, "secret below minimum length")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.identity.Login(ctx, "nobody", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.identity.Register(ctx, "alice", "secret123", false)
	require.NoError(t, err)
	_, _, err = env.identity.Login(ctx, "alice", "wrongsecret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestWhoAmIResolvesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, registered := env.userToken(t, "alice")

	user, err := env.identity.WhoAmI(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsAdmin)
}

func TestWhoAmIFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.identity.WhoAmI(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = env.identity.WhoAmI(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestLogoutRevokesOnlyThatSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.identity.Register(ctx, "alice", "secret123", false)
	require.NoError(t, err)

	first, _, err := env.identity.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	// Sessions embed issue time, so the second token differs from the first.
	env.clock.Advance(1 * time.Second)
	second, _, err := env.identity.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, env.identity.Logout(ctx, first))

	_, err = env.identity.WhoAmI(ctx, first)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	_, err = env.identity.WhoAmI(ctx, second)
	assert.NoError(t, err, "other sessions stay live")
}

func TestLogoutUnknownTokenIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.identity.Logout(context.Background(), "unknown-token"))
}

func TestResetAllExceptAdministrator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	adminToken := env.adminToken(t)
	aliceToken, _ := env.userToken(t, "alice")
	env.userToken(t, "bob")

	require.NoError(t, env.identity.ResetAllExceptAdministrator(ctx, adminToken))

	// Regular accounts and every session are gone.
	_, _, err := env.identity.Login(ctx, "alice", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = env.identity.WhoAmI(ctx, aliceToken)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)

	// The administrator can log back in with the bootstrap credentials.
	_, user, err := env.identity.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestResetAllRequiresAdministrator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, _ := env.userToken(t, "alice")
	err := env.identity.ResetAllExceptAdministrator(ctx, token)
	assert.ErrorIs(t, err, domain.ErrNotAdministrator)
}
