// Copyright (c) 2026 Quillora. All rights reserved.

// Package middleware provides the HTTP middleware chain for the Quillora API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"net/http"

	"github.com/quillora/quillora/internal/platform/apperr"
	"github.com/quillora/quillora/internal/platform/constants"
	"github.com/quillora/quillora/internal/platform/ctxutil"
	"github.com/quillora/quillora/internal/platform/respond"
	"github.com/quillora/quillora/internal/platform/sec"
)

// Authenticator turns a raw Authorization header value into a verified
// identity, or nil when the header does not prove one.
//
// # Why an interface?
//
// Defining Authenticator here decouples the middleware from the auth service
// implementation, allowing us to easily inject stubs during unit testing.
type Authenticator interface {
	Authenticate(bearerHeaderValue string) *sec.Principal
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present but unverifiable, abort with HTTP 401 — never with a reason.
//  4. Inject the [*sec.Principal] into the request context for downstream use.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			principal := authenticator.Authenticate(authHeader)
			if principal == nil {
				// One generic message for every failure mode: wrong scheme,
				// malformed token, bad signature, expired.
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose authenticated role lacks the grant
// for the given action (see [sec.Role.Has]).
//
// # Usage
//
// Must be registered AFTER [Authenticate]. It implies [RequireAuth], so
// mounting both is unnecessary.
func RequirePermission(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !principal.Role.Has(action) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
