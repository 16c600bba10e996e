package config

import "github.com/yndnr/authline/internal/telemetry/logger"

// Sanitize returns a copy of the config with the auth token masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Auth.Token = logger.RedactString(sanitized.Auth.Token)
	return &sanitized
}
