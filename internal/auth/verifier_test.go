package auth

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNewVerifier_Empty(t *testing.T) {
	if _, err := NewVerifier(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("NewVerifier(\"\") error = %v, want ErrEmptySecret", err)
	}
}

func TestPlainVerifier(t *testing.T) {
	v, err := NewVerifier("TOKEN")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if v.Mode() != "plain" {
		t.Errorf("Mode() = %q, want plain", v.Mode())
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"TOKEN", true},
		{"token", false},
		{"TOKEN ", false}, // callers trim; the verifier compares exactly
		{"TOKENX", false},
		{"TOK", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := v.Verify(tt.token); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestHashToken_RoundTrip(t *testing.T) {
	hash, err := HashToken("s3cret")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=16384,t=2,p=2$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	v, err := NewVerifier(hash)
	if err != nil {
		t.Fatalf("NewVerifier(hash) error = %v", err)
	}
	if v.Mode() != "argon2id" {
		t.Errorf("Mode() = %q, want argon2id", v.Mode())
	}
	if !v.Verify("s3cret") {
		t.Error("Verify(correct secret) = false")
	}
	if v.Verify("wrong") {
		t.Error("Verify(wrong secret) = true")
	}
}

func TestHashToken_SaltIsRandom(t *testing.T) {
	a, err := HashToken("same")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}
	b, err := HashToken("same")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}
	if a == b {
		t.Error("two hashes of the same secret should differ")
	}
}

func TestHashToken_Empty(t *testing.T) {
	if _, err := HashToken(""); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("HashToken(\"\") error = %v, want ErrEmptySecret", err)
	}
}

func TestParseArgon2_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"too few parts", "$argon2id$v=19$m=8,t=1,p=1$c2FsdA"},
		{"bad version", "$argon2id$v=16$m=8,t=1,p=1$c2FsdA$a2V5"},
		{"version not numeric", "$argon2id$v=x$m=8,t=1,p=1$c2FsdA$a2V5"},
		{"bad params", "$argon2id$v=19$m=8;t=1$c2FsdA$a2V5"},
		{"zero time", "$argon2id$v=19$m=8,t=0,p=1$c2FsdA$a2V5"},
		{"bad salt", "$argon2id$v=19$m=8,t=1,p=1$!!!$a2V5"},
		{"bad key", "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$!!!"},
		{"empty key", "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$"},
		{"memory too large", "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$a2V5"},
		{"memory just over limit", "$argon2id$v=19$m=1048577,t=1,p=1$c2FsdA$a2V5"},
		{"time too large", "$argon2id$v=19$m=8,t=17,p=1$c2FsdA$a2V5"},
		{"parallelism too large", "$argon2id$v=19$m=8,t=1,p=17$c2FsdA$a2V5"},
		{"parallelism overflows", "$argon2id$v=19$m=8,t=1,p=300$c2FsdA$a2V5"},
		{"key too long", "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$" + strings.Repeat("A", 1368)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(tt.encoded)
			if !errors.Is(err, ErrMalformedHash) {
				t.Errorf("NewVerifier(%q) error = %v, want ErrMalformedHash", tt.encoded, err)
			}
		})
	}
}

func TestParseArgon2_CostLimits(t *testing.T) {
	encoded := "$argon2id$v=19$m=1048576,t=16,p=16$c2FsdA$a2V5"
	v, err := NewVerifier(encoded)
	if err != nil {
		t.Fatalf("NewVerifier(%q) error = %v, want parameters at the limit accepted", encoded, err)
	}
	if v.Mode() != "argon2id" {
		t.Errorf("Mode() = %q, want argon2id", v.Mode())
	}
}

func TestVerifier_Concurrent(t *testing.T) {
	v, err := NewVerifier("shared")
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := i%2 == 0
			token := "shared"
			if !want {
				token = "other"
			}
			if got := v.Verify(token); got != want {
				t.Errorf("Verify(%q) = %v, want %v", token, got, want)
			}
		}(i)
	}
	wg.Wait()
}
