// Copyright (c) 2026 Quillora. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateOpaqueToken returns a hex-encoded random token with byteLength
// bytes of entropy from the OS cryptographic source.
//
// # Usage
//
// Refresh and password-reset tokens are opaque: they carry no claims and are
// only meaningful as database keys. 32 bytes hex-encode to 64 characters,
// which is the minimum length used anywhere in the platform.
func GenerateOpaqueToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
