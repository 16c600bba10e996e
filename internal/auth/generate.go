package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultSecretLength is the number of random bytes in a generated secret.
const DefaultSecretLength = 32

// MinSecretLength is the smallest accepted generated secret size.
const MinSecretLength = 16

// GenerateSecret returns DefaultSecretLength random bytes encoded as
// unpadded base64url.
func GenerateSecret() (string, error) {
	return GenerateSecretWithLength(DefaultSecretLength)
}

// GenerateSecretWithLength returns length random bytes encoded as
// unpadded base64url. The result is a single line of ASCII and survives
// the server's whitespace trimming unchanged.
func GenerateSecretWithLength(length int) (string, error) {
	if length < MinSecretLength {
		return "", fmt.Errorf("auth: secret length %d is below the minimum of %d", length, MinSecretLength)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
