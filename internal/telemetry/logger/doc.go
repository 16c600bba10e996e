// Package logger provides structured logging for authline.
//
// It wraps log/slog:
//
//   - logger.go: handler construction, level control, global default
//   - redact.go: masking of secrets before they reach the output
//
// Any attribute whose key looks like a credential (token, secret,
// password, auth) is replaced with a placeholder, and values that look
// like Argon2id hashes are partially masked. The shared auth token can
// therefore be logged by key without leaking it.
package logger
