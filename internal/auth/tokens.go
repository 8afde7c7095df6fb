// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/constants"
	"github.com/quillora/quillora/internal/platform/sec"
)

// errInvalidRefreshToken is the single generic failure for every refresh
// verification path: absent, expired, or already consumed. Callers never
// learn which, so the endpoint cannot be probed for token state.
var errInvalidRefreshToken = apperr.Unauthorized("Invalid or expired refresh token")

// RefreshTokenStore manages the full lifecycle of opaque refresh tokens on
// top of a [RefreshTokenRepository]: issuance, verification, single-use
// consumption, idempotent revocation, and bulk expiry sweeps.
//
// The clock is injected so expiry boundaries are testable; production wiring
// uses [time.Now].
type RefreshTokenStore struct {
	repository RefreshTokenRepository
	log        *slog.Logger
	now        func() time.Time
}

// NewRefreshTokenStore constructs a store with the system clock.
func NewRefreshTokenStore(repository RefreshTokenRepository, log *slog.Logger) *RefreshTokenStore {
	return &RefreshTokenStore{
		repository: repository,
		log:        log,
		now:        time.Now,
	}
}

// WithClock returns a copy of the store using the supplied time source.
// Production code never calls this; tests use it to cross expiry boundaries.
func (store *RefreshTokenStore) WithClock(now func() time.Time) *RefreshTokenStore {
	clone := *store
	clone.now = now
	return &clone
}

// Issue generates a new opaque token bound to the user and persists it.
//
// # Invariants
//   - The token value carries 32 bytes of entropy (64 hex characters).
//   - expiresAt = createdAt + 7 days, fixed at creation, never extended.
//
// A generator collision surfaces as the repository's uniqueness violation;
// the caller may simply retry.
func (store *RefreshTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := sec.GenerateOpaqueToken(constants.RefreshTokenBytes)
	if err != nil {
		return "", err
	}

	currentTime := store.now()
	record := &RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: currentTime.Add(constants.RefreshTokenTTL),
		CreatedAt: currentTime,
	}

	if err := store.repository.Insert(ctx, record); err != nil {
		return "", err
	}

	return token, nil
}

// Verify looks up the token and checks its expiry against the current clock.
//
// The boundary is strict: a token whose expiresAt equals "now" is already
// invalid. Absent and expired tokens fail identically.
func (store *RefreshTokenStore) Verify(ctx context.Context, token string) (*RefreshToken, error) {
	record, err := store.repository.FindByToken(ctx, token)
	if err != nil {
		return nil, errInvalidRefreshToken
	}

	if !store.now().Before(record.ExpiresAt) {
		return nil, errInvalidRefreshToken
	}

	return record, nil
}

// Consume verifies the token and atomically deletes it, returning the record
// for the caller to mint a replacement pair.
//
// # Concurrency
//
// Two concurrent rotations racing on the same token both pass Verify, but the
// repository's conditional delete admits exactly one winner. The loser
// observes deleted=false and fails with the same generic error as an unknown
// token — it never silently issues a second valid pair.
func (store *RefreshTokenStore) Consume(ctx context.Context, token string) (*RefreshToken, error) {
	record, err := store.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	deleted, err := store.repository.Delete(ctx, token)
	if err != nil {
		return nil, err
	}
	if !deleted {
		// Lost the race: the token was consumed by a concurrent rotation.
		return nil, errInvalidRefreshToken
	}

	return record, nil
}

// Revoke deletes the token record.
//
// Revocation is idempotent by design: revoking an unknown or already-revoked
// token is logged and swallowed, never surfaced, so a double-submitted logout
// cannot crash the flow. Storage failures still propagate.
func (store *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	deleted, err := store.repository.Delete(ctx, token)
	if err != nil {
		return err
	}

	if !deleted {
		store.log.DebugContext(ctx, "refresh_token_already_revoked")
	}

	return nil
}

// RevokeAllForUser deletes every refresh token belonging to the user,
// logging them out of all devices. Used after a password change.
func (store *RefreshTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	count, err := store.repository.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}

	store.log.InfoContext(ctx, "refresh_tokens_revoked_for_user",
		slog.String("user_id", userID),
		slog.Int64("count", count),
	)
	return nil
}

// SweepExpired bulk-deletes every record whose expiry has passed and returns
// the count. It is invoked by the periodic background sweeper in cmd/api.
func (store *RefreshTokenStore) SweepExpired(ctx context.Context) (int64, error) {
	return store.repository.DeleteExpired(ctx, store.now())
}
