// Copyright (c) 2026 Quillora. All rights reserved.

// Package auth implements the authentication and authorization core of the
// Quillora platform: credential verification, token-pair issuance,
// refresh-token rotation, and bearer-token authentication.
//
// # Architecture
//
// The service in this package orchestrates domain entities and interacts with
// repositories through interfaces. It is technology-agnostic and does not
// know about HTTP or SQL.
package auth

import (
	"time"

	"github.com/quillora/quillora/internal/platform/sec"
)

// User represents a registered member of the Quillora platform.
//
// # Rules
//   - Email is unique and canonicalised (see pkg/identity) before storage.
//   - PasswordHash is generated via bcrypt exclusively by the auth service.
//   - A nil PasswordHash means "no password set" (externally-authenticated
//     account), never "empty password": such an account can NEVER pass
//     password verification.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken represents a long-lived, single-use rotation credential.
//
// # Security Concept
//
// Access Tokens (JWT) are stateless and cannot be revoked before they expire.
// To mitigate this, Quillora uses short-lived JWTs paired with long-lived
// refresh tokens stored in the database. When the JWT expires, the client
// exchanges the refresh token for a fresh pair; the old token is deleted in
// the same operation, so it can only ever be spent once.
//
// Lifecycle: issued → consumed-by-rotation | explicitly revoked | expired.
// All three terminal states are permanent; a token value is never reissued.
type RefreshToken struct {
	Token     string    `json:"-"` // Opaque random value. Omitted for security.
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the unit of issuance: an access token and a refresh token are
// always minted together, never independently.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthSession represents a successfully established user session.
type AuthSession struct {
	TokenPair
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	User                  *User     `json:"user"`
}
