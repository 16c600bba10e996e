package logger

import (
	"log/slog"
	"strings"
)

// argon2Prefix marks an encoded Argon2id hash (see internal/auth).
const argon2Prefix = "$argon2id$"

// Key fragments that mark an attribute as carrying a credential.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
}

const redactedValue = "***REDACTED***"

// redactSensitive masks credential-looking attributes. Hash values keep
// their parameter section so operators can tell which cost was used.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if strings.HasPrefix(s, argon2Prefix) {
			return slog.String(a.Key, maskHash(s))
		}
		if s != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskHash keeps "$argon2id$v=..$m=..,t=..,p=..$" and drops salt and key.
func maskHash(s string) string {
	parts := strings.Split(s, "$")
	if len(parts) != 6 {
		return argon2Prefix + "***"
	}
	return strings.Join(parts[:4], "$") + "$***"
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}

// RedactString masks value for inclusion in free-form messages.
func RedactString(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, argon2Prefix) {
		return maskHash(value)
	}
	return redactedValue
}
