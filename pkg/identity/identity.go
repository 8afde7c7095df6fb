// Copyright (c) 2026 Quillora. All rights reserved.

// Package identity canonicalises user-supplied identifiers before they are
// stored or compared.
//
// # Why canonicalise?
//
// "User@Example.COM" and "user@example.com" must resolve to the same account,
// and two visually identical Unicode passwords must hash to the same bytes.
// Canonicalisation happens exactly once, at the auth service boundary, so
// storage and comparison always operate on one normal form.
package identity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/secure/precis"
)

// emailFolder performs Unicode case folding, which is broader than ASCII
// lowercasing and stable across locales.
var emailFolder = cases.Fold()

// NormalizeEmail returns the canonical form of an email address: trimmed and
// case-folded. It performs no syntactic validation — that is the job of the
// validate package at the delivery boundary.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// NormalizePassword applies the PRECIS OpaqueString profile (RFC 8265) to a
// plain-text password: NFC normalization, space mapping, and rejection of
// control characters.
//
// Applying the same profile at registration and login guarantees that a
// password typed on two different platforms produces identical bytes for the
// hasher.
func NormalizePassword(password string) (string, error) {
	normalized, err := precis.OpaqueString.String(password)
	if err != nil {
		return "", fmt.Errorf("identity: password contains disallowed characters: %w", err)
	}
	return normalized, nil
}
