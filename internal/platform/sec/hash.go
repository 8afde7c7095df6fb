// Copyright (c) 2026 Quillora. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing,
// Permission evaluation) from the domain logic. It acts as an Infrastructure
// service injected into the Application layer via small interfaces.
package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/quillora/quillora/internal/platform/constants"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// The cost factor is fixed by [constants.PasswordHashCost]; bcrypt embeds the
// cost and salt in the returned self-describing hash string.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), constants.PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// VerifyPassword compares a plain-text password with its hashed version.
//
// It never returns an error: a malformed or truncated hash in storage counts
// as a failed verification, so authentication degrades to "deny" instead of
// crashing the login flow.
func VerifyPassword(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
