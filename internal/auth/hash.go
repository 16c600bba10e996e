package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Default Argon2id parameters used by HashToken.
const (
	Argon2Time        uint32 = 2
	Argon2Memory      uint32 = 16 * 1024
	Argon2Parallelism uint8  = 2
	Argon2KeyLen      uint32 = 32
	Argon2SaltLen            = 16
)

// Upper bounds accepted when parsing a configured hash. Verify runs the
// full derivation on every authentication attempt.
const (
	MaxArgon2Memory      uint32 = 1024 * 1024 // KiB, 1 GiB
	MaxArgon2Time        uint32 = 16
	MaxArgon2Parallelism uint8  = 16
	MaxArgon2KeyLen             = 1024
)

// ErrMalformedHash is returned when an Argon2id secret cannot be parsed.
var ErrMalformedHash = errors.New("auth: malformed argon2id hash")

type argon2Verifier struct {
	time    uint32
	memory  uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parseArgon2(encoded string) (*argon2Verifier, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	v := &argon2Verifier{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &v.memory, &v.time, &v.threads); err != nil {
		return nil, fmt.Errorf("%w: params: %v", ErrMalformedHash, err)
	}
	if v.time == 0 || v.threads == 0 {
		return nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedHash)
	}
	if v.memory > MaxArgon2Memory || v.time > MaxArgon2Time || v.threads > MaxArgon2Parallelism {
		return nil, fmt.Errorf("%w: cost parameters m=%d,t=%d,p=%d exceed m=%d,t=%d,p=%d",
			ErrMalformedHash, v.memory, v.time, v.threads, MaxArgon2Memory, MaxArgon2Time, MaxArgon2Parallelism)
	}

	var err error
	if v.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if v.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", ErrMalformedHash, err)
	}
	if len(v.key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}
	if len(v.key) > MaxArgon2KeyLen {
		return nil, fmt.Errorf("%w: key longer than %d bytes", ErrMalformedHash, MaxArgon2KeyLen)
	}

	return v, nil
}

func (v *argon2Verifier) Verify(token string) bool {
	computed := argon2.IDKey([]byte(token), v.salt, v.time, v.memory, v.threads, uint32(len(v.key)))
	return subtle.ConstantTimeCompare(computed, v.key) == 1
}

func (v *argon2Verifier) Mode() string { return "argon2id" }

// HashToken derives an Argon2id hash of secret with a random salt and
// the default parameters. The result can be used as AUTH_TOKEN.
func HashToken(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, Argon2Memory, Argon2Time, Argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}
