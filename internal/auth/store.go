// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Quillora is PostgreSQL (store_postgres.go).
// Tests substitute an in-memory fake.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given canonical email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns [apperr.Conflict] if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	// This is separate from profile updates to prevent accidental overwrites.
	UpdatePassword(ctx context.Context, userID, newHash string) error
}

// RefreshTokenRepository defines the data access contract for refresh tokens.
//
// # Concurrency Contract
//
// Delete MUST be atomic at the storage layer: when two concurrent rotations
// race on the same token, exactly one call observes deleted=true. This is the
// one correctness invariant the storage collaborator must uphold — it is what
// makes a refresh token single-use.
type RefreshTokenRepository interface {
	// Insert persists a newly issued token record.
	//
	// Returns [apperr.Conflict] if the token value already exists (a
	// collision of the random generator); the caller may retry.
	Insert(ctx context.Context, token *RefreshToken) error

	// FindByToken returns the record for the given token value.
	//
	// Returns [apperr.NotFound] if no such token exists. Expiry is NOT
	// checked here — the token store owns the clock comparison.
	FindByToken(ctx context.Context, token string) (*RefreshToken, error)

	// Delete removes the record for the given token value. It reports
	// whether a row was actually deleted, which callers use both for
	// idempotent revocation and for single-winner rotation.
	Delete(ctx context.Context, token string) (deleted bool, err error)

	// DeleteByUser removes every token belonging to the user. Used when a
	// password changes or an account is compromised.
	DeleteByUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes all records whose expiry is strictly before now.
	// Intended to be called by the periodic background sweeper.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens.
type ResetTokenRepository interface {
	// Set stores a reset token associated with a userID for a limited duration.
	Set(ctx context.Context, token string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a given reset token.
	//
	// Returns [apperr.NotFound] if the token is absent or expired.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes a reset token after successful use.
	Delete(ctx context.Context, token string) error
}
