// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/constants"
	"github.com/quillora/quillora/internal/platform/sec"
	"github.com/quillora/quillora/pkg/identity"
	"github.com/quillora/quillora/pkg/uuidv7"
)

// errInvalidCredentials is the single generic failure for every login path:
// unknown email, account without a password, or wrong password. Identical on
// purpose — the login endpoint must not reveal whether an account exists.
var errInvalidCredentials = apperr.Unauthorized("Invalid login credentials")

// Service implements the authentication and authorization use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// login, or rotation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	refreshTokens  *RefreshTokenStore
	resetTokens    ResetTokenRepository
	codec          *sec.TokenCodec
	log            *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	refreshTokens *RefreshTokenStore,
	resetTokens ResetTokenRepository,
	codec *sec.TokenCodec,
	log *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		refreshTokens:  refreshTokens,
		resetTokens:    resetTokens,
		codec:          codec,
		log:            log,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register validates, hashes, and persists a brand new user account, then
// issues its first token pair.
//
// # Business Rules
//   - Emails must be unique; duplicates fail with [apperr.Conflict]. Unlike
//     login, this IS a specific error — a registration flow cannot hide
//     address existence anyway.
//   - The default role is always 'author', the lowest-privilege role that can
//     create content. Role escalation is never accepted from caller input.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {
	// ── 1. Canonicalisation ───────────────────────────────────────────────

	email := identity.NormalizeEmail(input.Email)

	password, err := identity.NormalizePassword(input.Password)
	if err != nil {
		return nil, apperr.ValidationError("Password contains disallowed characters")
	}

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	if _, err := service.userRepository.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. The fixed cost factor balances
	// security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:        email,
		PasswordHash: &hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleAuthor, // Rule: default role is always Author.
	}

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	return service.issueSession(ctx, user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates user credentials and issues a token pair.
//
// # Flow
//  1. Lookup user by canonical email.
//  2. Verify password hash using bcrypt.
//  3. Issue a fresh token pair (access JWT + refresh token).
//
// Every failure before step 3 returns the same generic unauthorized error to
// prevent account enumeration.
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthSession, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		return nil, errInvalidCredentials
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// An account without a stored hash (externally authenticated) can never
	// pass password login. Checked before touching the hasher at all.
	if user.PasswordHash == nil {
		return nil, errInvalidCredentials
	}

	password, err := identity.NormalizePassword(input.Password)
	if err != nil {
		return nil, errInvalidCredentials
	}

	// bcrypt performs a constant-time comparison internally.
	if !sec.VerifyPassword(password, *user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	return service.issueSession(ctx, user)
}

// # Rotation Flow

// Refresh implements the refresh-token rotation mechanism. It consumes the
// presented token and issues a fresh pair bound to the same user.
//
// # Ordering Invariant
//
// The old token is revoked (deleted) BEFORE the new pair is issued. At no
// instant do two valid refresh tokens for the same rotation exist, so a
// captured old token can never be replayed alongside a fresh pair.
func (service *Service) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	// ── 1. Consume Old Token (verify + atomic delete) ─────────────────────

	record, err := service.refreshTokens.Consume(ctx, refreshToken)
	if err != nil {
		// Absent, expired, or lost a concurrent rotation race.
		return nil, err
	}

	// ── 2. Find User ──────────────────────────────────────────────────────

	user, err := service.userRepository.FindByID(ctx, record.UserID)
	if err != nil {
		// The account vanished after issuance. Same generic failure as an
		// invalid token — this endpoint reveals nothing.
		return nil, errInvalidRefreshToken
	}

	// ── 3. Issue New Pair ─────────────────────────────────────────────────

	return service.issueSession(ctx, user)
}

// Logout permanently revokes the presented refresh token.
//
// Idempotent: logging out with an unknown or already-revoked token succeeds,
// so double-submission cannot crash the flow. The access token remains valid
// until its natural expiry — stateless tokens cannot be recalled.
func (service *Service) Logout(ctx context.Context, refreshToken string) error {
	return service.refreshTokens.Revoke(ctx, refreshToken)
}

// # Request Authentication

// bearerPrefix is the exact, case-sensitive scheme prefix required by the
// wire contract. "bearer", "Basic", or a missing space all fail extraction.
const bearerPrefix = "Bearer "

// ExtractBearerToken pulls the token out of an Authorization header value.
//
// Only the first space after "Bearer" separates scheme from token: the
// remainder is returned verbatim, leading whitespace included.
func ExtractBearerToken(bearerHeaderValue string) (string, bool) {
	if !strings.HasPrefix(bearerHeaderValue, bearerPrefix) {
		return "", false
	}
	token := bearerHeaderValue[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate turns a raw Authorization header value into a verified
// [*sec.Principal], or nil if the header does not prove one.
//
// Verification is purely cryptographic — no database lookup — so this is
// safe to run on every request. All failure modes (missing header, wrong
// scheme, empty token, bad signature, expired) collapse to nil.
func (service *Service) Authenticate(bearerHeaderValue string) *sec.Principal {
	token, ok := ExtractBearerToken(bearerHeaderValue)
	if !ok {
		return nil
	}

	claims := service.codec.VerifyAccess(token)
	if claims == nil {
		return nil
	}

	return claims.Principal()
}

// # Password Reset Flow

// ForgotPassword issues a volatile reset token for the account, if it exists.
//
// The returned token is handed to the mail delivery pipeline, never to the
// HTTP response. An unknown email returns success with an empty token so the
// endpoint cannot be used to probe for accounts.
func (service *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		service.log.InfoContext(ctx, "password_reset_requested_for_unknown_email")
		return "", nil
	}

	token, err := sec.GenerateOpaqueToken(constants.ResetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.resetTokens.Set(ctx, token, user.ID, constants.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_reset_token_store_failed: %w", err)
	}

	// TODO: hand the token to the transactional mail service once it ships.
	service.log.InfoContext(ctx, "password_reset_token_issued", slog.String("user_id", user.ID))

	return token, nil
}

// ResetPassword redeems a reset token, replaces the stored hash, and revokes
// every refresh token the user holds — a password change logs out all devices.
func (service *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	// ── 1. Redeem Token ───────────────────────────────────────────────────

	userID, err := service.resetTokens.Get(ctx, token)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired reset token")
	}

	// ── 2. Replace Hash ───────────────────────────────────────────────────

	password, err := identity.NormalizePassword(newPassword)
	if err != nil {
		return apperr.ValidationError("Password contains disallowed characters")
	}

	newHash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("auth_service_password_update_failed: %w", err)
	}

	// ── 3. Cleanup & Global Logout ────────────────────────────────────────

	if err := service.resetTokens.Delete(ctx, token); err != nil {
		service.log.WarnContext(ctx, "reset_token_delete_failed", slog.Any("error", err))
	}

	return service.refreshTokens.RevokeAllForUser(ctx, userID)
}

// # Internal Helpers

// issueSession mints the access/refresh pair for the user. Pairs are always
// issued together, never independently.
func (service *Service) issueSession(ctx context.Context, user *User) (*AuthSession, error) {
	accessToken, err := service.codec.SignAccess(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := service.refreshTokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &AuthSession{
		TokenPair: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		RefreshTokenExpiresAt: time.Now().Add(constants.RefreshTokenTTL),
		User:                  user,
	}, nil
}
