// Package id generates opaque, prefixed identifiers for stored entities.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generate returns prefix followed by 16 hex characters of randomness.
func Generate(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("id: read random bytes: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}
