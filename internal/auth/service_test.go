// Copyright (c) 2026 Quillora. All rights reserved.

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillora/quillora/internal/auth"
	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/sec"
)

// testEnv bundles a fully wired auth service with its in-memory collaborators
// so tests can assert against storage state directly.
type testEnv struct {
	service     *auth.Service
	users       *memoryUserRepository
	refreshRepo *memoryRefreshTokenRepository
	resetRepo   *memoryResetTokenRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := sec.NewTokenCodec("unit-test-signing-secret", "quillora.app")
	require.NoError(t, err)

	users := newMemoryUserRepository()
	refreshRepo := newMemoryRefreshTokenRepository()
	resetRepo := newMemoryResetTokenRepository()
	log := discardLogger()

	return &testEnv{
		service:     auth.NewService(users, auth.NewRefreshTokenStore(refreshRepo, log), resetRepo, codec, log),
		users:       users,
		refreshRepo: refreshRepo,
		resetRepo:   resetRepo,
	}
}

/*
TestService_Register_FullLifecycle walks the happy path end to end: register,
authenticate with the issued access token, then rotate the refresh token.
*/
func TestService_Register_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// ── 1. Register ───────────────────────────────────────────────────────
	session, err := env.service.Register(ctx, auth.RegisterInput{
		Email:       "a@b.com",
		Password:    "Password123",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.AccessToken)
	assert.GreaterOrEqual(t, len(session.RefreshToken), 64)
	assert.Equal(t, sec.RoleAuthor, session.User.Role) // default role, never caller-supplied
	assert.Equal(t, "a@b.com", session.User.Email)
	require.NotNil(t, session.User.PasswordHash)
	assert.NotEqual(t, "Password123", *session.User.PasswordHash)

	// ── 2. Authenticate with the access token ─────────────────────────────
	principal := env.service.Authenticate("Bearer " + session.AccessToken)
	require.NotNil(t, principal)
	assert.Equal(t, session.User.ID, principal.UserID)
	assert.Equal(t, "a@b.com", principal.Email)
	assert.Equal(t, sec.RoleAuthor, principal.Role)

	// ── 3. Rotate the refresh token ───────────────────────────────────────
	rotated, err := env.service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, rotated)

	// The new pair is fresh, not a re-issue of the old one
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, session.User.ID, rotated.User.ID)

	// ── 4. The consumed token is dead ─────────────────────────────────────
	_, err = env.service.Refresh(ctx, session.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestService_Register_DuplicateEmail verifies duplicate registration fails with
a conflict, including when the email differs only in case.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.service.Register(ctx, auth.RegisterInput{
		Email:    "writer@quillora.app",
		Password: "Password123",
	})
	require.NoError(t, err)

	// Same address with different casing canonicalises to the same account.
	_, err = env.service.Register(ctx, auth.RegisterInput{
		Email:    "Writer@Quillora.APP",
		Password: "OtherPassword9",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_Login verifies credential checking and the single generic failure
shared by every rejection path.
*/
func TestService_Login(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.service.Register(ctx, auth.RegisterInput{
		Email:    "reader@quillora.app",
		Password: "Password123",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		session, err := env.service.Login(ctx, auth.LoginInput{
			Email:    "reader@quillora.app",
			Password: "Password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
	})

	t.Run("case_insensitive_email", func(t *testing.T) {
		_, err := env.service.Login(ctx, auth.LoginInput{
			Email:    "Reader@QUILLORA.app",
			Password: "Password123",
		})
		assert.NoError(t, err)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := env.service.Login(ctx, auth.LoginInput{
			Email:    "reader@quillora.app",
			Password: "WrongPassword",
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid login credentials", err.Error())
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := env.service.Login(ctx, auth.LoginInput{
			Email:    "nobody@quillora.app",
			Password: "Password123",
		})
		require.Error(t, err)

		// Identical message to the wrong-password case: no enumeration signal.
		assert.Equal(t, "Invalid login credentials", err.Error())
	})
}

/*
TestService_Login_NoPasswordSet verifies an account without a stored hash can
never pass password login, with the same generic failure.
*/
func TestService_Login_NoPasswordSet(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Externally-authenticated account seeded directly into storage.
	require.NoError(t, env.users.Create(ctx, &auth.User{
		ID:           "user-sso",
		Email:        "sso@quillora.app",
		PasswordHash: nil,
		Role:         sec.RoleViewer,
	}))

	_, err := env.service.Login(ctx, auth.LoginInput{
		Email:    "sso@quillora.app",
		Password: "anything",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

/*
TestService_Refresh_OrphanedToken verifies a refresh token whose account has
vanished fails with the generic token error.
*/
func TestService_Refresh_OrphanedToken(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// Token issued for a user ID that no longer resolves.
	store := auth.NewRefreshTokenStore(env.refreshRepo, discardLogger())
	token, err := store.Issue(ctx, "deleted-user")
	require.NoError(t, err)

	_, err = env.service.Refresh(ctx, token)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}

/*
TestService_Logout verifies the refresh token dies on logout and that a second
logout with the same token is harmless.
*/
func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	session, err := env.service.Register(ctx, auth.RegisterInput{
		Email:    "leaver@quillora.app",
		Password: "Password123",
	})
	require.NoError(t, err)

	// 1. Logout revokes the refresh token
	require.NoError(t, env.service.Logout(ctx, session.RefreshToken))
	_, err = env.service.Refresh(ctx, session.RefreshToken)
	assert.Error(t, err)

	// 2. Double logout is idempotent
	assert.NoError(t, env.service.Logout(ctx, session.RefreshToken))
}

/*
TestExtractBearerToken exercises the exact, case-sensitive header contract.
*/
func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"valid", "Bearer abc123", "abc123", true},
		{"empty_header", "", "", false},
		{"wrong_scheme", "Basic abc123", "", false},
		{"lowercase_scheme", "bearer abc123", "", false},
		{"missing_space", "Bearerabc123", "", false},
		{"empty_token", "Bearer ", "", false},
		{"token_only", "abc123", "", false},

		// Only the first space separates scheme from token; the remainder is
		// returned verbatim, leading whitespace included.
		{"extra_spaces_kept", "Bearer   spacey", "  spacey", true},
		{"inner_space_kept", "Bearer ab c", "ab c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, ok := auth.ExtractBearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.token, token)
		})
	}
}

/*
TestService_Authenticate verifies bearer authentication collapses every
failure mode to nil.
*/
func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	session, err := env.service.Register(ctx, auth.RegisterInput{
		Email:    "member@quillora.app",
		Password: "Password123",
	})
	require.NoError(t, err)

	t.Run("valid_token", func(t *testing.T) {
		principal := env.service.Authenticate("Bearer " + session.AccessToken)
		require.NotNil(t, principal)
		assert.Equal(t, session.User.ID, principal.UserID)
	})

	t.Run("rejections", func(t *testing.T) {
		assert.Nil(t, env.service.Authenticate(""))
		assert.Nil(t, env.service.Authenticate("Bearer "))
		assert.Nil(t, env.service.Authenticate("Basic "+session.AccessToken))
		assert.Nil(t, env.service.Authenticate("bearer "+session.AccessToken))
		assert.Nil(t, env.service.Authenticate("Bearer not-a-jwt"))
		assert.Nil(t, env.service.Authenticate("Bearer "+session.AccessToken+"x"))
	})

	t.Run("refresh_token_is_not_an_access_token", func(t *testing.T) {
		// Opaque refresh tokens carry no claims and must never authenticate.
		assert.Nil(t, env.service.Authenticate("Bearer "+session.RefreshToken))
	})
}

/*
TestService_PasswordReset walks the full reset flow: request a token, redeem
it, and verify the old password and every refresh token are dead.
*/
func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	session, err := env.service.Register(ctx, auth.RegisterInput{
		Email:    "forgetful@quillora.app",
		Password: "OldPassword1",
	})
	require.NoError(t, err)

	// ── 1. Unknown email yields no token and no error ─────────────────────
	token, err := env.service.ForgotPassword(ctx, "stranger@quillora.app")
	require.NoError(t, err)
	assert.Empty(t, token)

	// ── 2. Known email yields a token bound to the account ────────────────
	token, err = env.service.ForgotPassword(ctx, "forgetful@quillora.app")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(token), 64)

	// ── 3. Redeem ─────────────────────────────────────────────────────────
	require.NoError(t, env.service.ResetPassword(ctx, token, "NewPassword2"))

	// Old password no longer works, new one does
	_, err = env.service.Login(ctx, auth.LoginInput{Email: "forgetful@quillora.app", Password: "OldPassword1"})
	assert.Error(t, err)
	_, err = env.service.Login(ctx, auth.LoginInput{Email: "forgetful@quillora.app", Password: "NewPassword2"})
	assert.NoError(t, err)

	// A password change logs out all devices
	_, err = env.service.Refresh(ctx, session.RefreshToken)
	assert.Error(t, err)

	// ── 4. The reset token is single-use ──────────────────────────────────
	err = env.service.ResetPassword(ctx, token, "ThirdPassword3")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)
}
