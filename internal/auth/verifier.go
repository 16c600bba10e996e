package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrEmptySecret is returned when the configured secret is empty.
var ErrEmptySecret = errors.New("auth: secret must not be empty")

// Verifier checks presented tokens against the configured secret.
type Verifier interface {
	// Verify reports whether token matches. token has already been
	// trimmed by the caller.
	Verify(token string) bool
	// Mode names the verification scheme ("plain" or "argon2id").
	Mode() string
}

// NewVerifier builds a Verifier from the configured secret. A secret in
// Argon2id encoded form is parsed as a hash; anything else is plaintext.
func NewVerifier(secret string) (Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if strings.HasPrefix(secret, argon2Prefix) {
		return parseArgon2(secret)
	}
	return &plainVerifier{secret: []byte(secret)}, nil
}

type plainVerifier struct {
	secret []byte
}

func (v *plainVerifier) Verify(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), v.secret) == 1
}

func (v *plainVerifier) Mode() string { return "plain" }
