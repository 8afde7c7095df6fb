// Copyright (c) 2026 Quillora. All rights reserved.

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quillora/quillora/internal/platform/constants"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the JWT,
// [middleware.Authenticate] can reconstruct the active user context WITHOUT
// querying the database on every single API request. The tradeoff is that an
// access token cannot be revoked before its natural expiry, which is why the
// TTL is held to 15 minutes and pairs with the DB-backed refresh token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// TokenCodec signs and verifies JWT access tokens using HS256 with a
// process-wide symmetric secret.
//
// The secret and clock are injected once at startup and treated as immutable,
// keeping the codec testable with substitutable secrets and clocks.
type TokenCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenCodec creates a TokenCodec from the configured signing secret.
//
// An empty secret is a configuration error, never a fallback: the caller is
// expected to fail startup on it.
func NewTokenCodec(secret, issuer string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("sec: JWT signing secret must not be empty")
	}
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the codec using the supplied time source.
// Production code never calls this; tests use it to cross expiry boundaries.
func (codec *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *codec
	clone.now = now
	return &clone
}

// SignAccess creates a new signed access token for a user.
//
// The expiry is fixed at [constants.AccessTokenTTL] inside the codec. It is
// intentionally not a parameter so no caller can mint long-lived tokens.
func (codec *TokenCodec) SignAccess(userID, email, role string) (string, error) {
	currentTime := codec.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(constants.AccessTokenTTL)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccess checks the signature and validity of a JWT string.
//
// It returns nil on ANY failure — bad signature, malformed structure, wrong
// algorithm, expired. Callers never learn why a token was rejected, so the
// endpoint cannot be used as an oracle to probe token state.
func (codec *TokenCodec) VerifyAccess(tokenString string) *AuthClaims {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("sec: unexpected signing method")
			}
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
	)

	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok {
		return nil
	}

	return claims
}

// # Principal

// Principal is the authenticated identity derived from a verified access
// token. It is never persisted; its lifetime is a single request.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Principal converts verified claims into a request-scoped identity.
func (claims *AuthClaims) Principal() *Principal {
	return &Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   Role(claims.Role),
	}
}
