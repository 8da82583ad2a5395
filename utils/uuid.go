package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// tokenBytes yields a 40-character hex token.
const tokenBytes = 20

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateToken returns a random opaque API token
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
