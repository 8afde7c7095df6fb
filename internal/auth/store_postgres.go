// Copyright (c) 2026 Quillora. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record into the users.account table.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, displayname, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsConflict(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves a user record by their unique canonical email.
//
// # Returns
//
// Returns [*User] if found, or [apperr.NotFound] if no account exists.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, displayname, role, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(ctx, query, email)
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, displayname, role, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

// UpdatePassword updates only the password hash for a specific user.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row account query and maps the result.
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_query_failed: %w", err)
	}

	return user, nil
}

// ── Refresh Token Repository ─────────────────────────────────────────────────

// PostgresRefreshTokenRepository implements RefreshTokenRepository.
//
// The token column is the primary key, so Insert enforces uniqueness and
// Delete is the single-row conditional operation that makes rotation
// single-winner: of two concurrent deletes for the same token, exactly one
// reports an affected row.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

// Insert persists a newly issued refresh token record.
func (repository *PostgresRefreshTokenRepository) Insert(ctx context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO users.refresh_token (token, userid, expiresat, createdat)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(ctx, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		if dberr.IsConflict(err) {
			// Random generator collision. The caller may retry with a fresh value.
			return apperr.Conflict("Refresh token already exists")
		}
		return fmt.Errorf("postgres_refresh_token_repo_insert_failed: %w", err)
	}

	return nil
}

// FindByToken retrieves a refresh token record by its unique value.
// Expiry is deliberately not filtered here; the token store owns the clock.
func (repository *PostgresRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*RefreshToken, error) {
	const query = `
		SELECT token, userid, expiresat, createdat
		FROM users.refresh_token
		WHERE token = $1`

	record := &RefreshToken{}
	err := repository.pool.QueryRow(ctx, query, token).Scan(
		&record.Token,
		&record.UserID,
		&record.ExpiresAt,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("postgres_refresh_token_repo_find_failed: %w", err)
	}

	return record, nil
}

// Delete removes the record for the given token value and reports whether a
// row was actually deleted. The single DELETE statement is the atomicity
// point for rotation races.
func (repository *PostgresRefreshTokenRepository) Delete(ctx context.Context, token string) (bool, error) {
	const query = "DELETE FROM users.refresh_token WHERE token = $1"

	tag, err := repository.pool.Exec(ctx, query, token)
	if err != nil {
		return false, fmt.Errorf("postgres_refresh_token_repo_delete_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteByUser removes every refresh token belonging to the user.
func (repository *PostgresRefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	const query = "DELETE FROM users.refresh_token WHERE userid = $1"

	tag, err := repository.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("postgres_refresh_token_repo_delete_by_user_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired permanently removes all tokens that have passed their
// expiration date. The expiresat index keeps this sweep cheap.
func (repository *PostgresRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = "DELETE FROM users.refresh_token WHERE expiresat < $1"

	tag, err := repository.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("postgres_refresh_token_repo_delete_expired_failed: %w", err)
	}

	return tag.RowsAffected(), nil
}
