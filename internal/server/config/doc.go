// Package config provides server configuration for authline.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, limits and log settings
//   - sanitize.go: Log sanitization (hide the auth token)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// AUTHLINE_* environment variables and AUTH_TOKEN.
package config
