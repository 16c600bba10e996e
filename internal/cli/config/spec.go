package config

import (
	"time"

	"github.com/yndnr/authline/internal/telemetry/logger"
)

// CLIConfig holds settings for authline-cli. Zero values mean unset.
type CLIConfig struct {
	Server  string        `koanf:"server" yaml:"server,omitempty"`
	Token   string        `koanf:"token" yaml:"token,omitempty"`
	Output  string        `koanf:"output" yaml:"output,omitempty"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout,omitempty"`
}

// Sanitized returns a copy safe to print.
func (c CLIConfig) Sanitized() CLIConfig {
	c.Token = logger.RedactString(c.Token)
	return c
}
