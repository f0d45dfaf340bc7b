package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// DefaultTokenLength is the number of random bytes behind a session token.
// The hex form is twice as long.
const DefaultTokenLength = 16

// GenerateToken returns a lowercase hex string built from byteLength bytes of
// cryptographically secure randomness.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateSessionToken returns a token of the default session length.
func GenerateSessionToken() (string, error) {
	return GenerateToken(DefaultTokenLength)
}
