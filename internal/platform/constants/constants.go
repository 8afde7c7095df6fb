// Copyright (c) 2026 Quillora. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, token lifetimes, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Authentication: Token lifetimes, hashing cost, and entropy sizes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "quillora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// AuthRateLimitRPS throttles credential endpoints (login/register) much
	// harder than the general API to blunt brute-force attempts.
	AuthRateLimitRPS = 2.0

	// AuthRateLimitBurst is the burst allowance for credential endpoints.
	AuthRateLimitBurst = 10

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "quillora.app"

	// AccessTokenTTL bounds the lifetime of a stateless access token. It is a
	// policy constant rather than a call parameter so no caller can mint
	// long-lived access tokens.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL bounds the lifetime of a DB-backed refresh token.
	// Expiry is fixed at issuance and never extended in place.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// ResetTokenTTL bounds the lifetime of a password-reset token in Redis.
	ResetTokenTTL = 30 * time.Minute

	// RefreshTokenBytes is the entropy of an opaque refresh token. 32 random
	// bytes hex-encode to 64 characters.
	RefreshTokenBytes = 32

	// ResetTokenBytes is the entropy of a password-reset token.
	ResetTokenBytes = 32

	// PasswordHashCost is the bcrypt cost factor for credential hashing.
	PasswordHashCost = 10

	// TokenSweepInterval is how often the background sweeper purges expired
	// refresh tokens from storage.
	TokenSweepInterval = 1 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
)
