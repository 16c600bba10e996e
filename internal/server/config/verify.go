package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/authline/internal/auth"
	"github.com/yndnr/authline/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if cfg.Auth.Token == "" {
		return errors.New("auth.token must not be empty")
	}
	if _, err := auth.NewVerifier(cfg.Auth.Token); err != nil {
		return fmt.Errorf("auth.token: %w", err)
	}
	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr: %w", err)
		}
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Addr == "" {
		return errors.New("server.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("server.addr: %w", err)
	}
	if cfg.ChunkSize < 1 || cfg.ChunkSize > MaxChunkSize {
		return fmt.Errorf("server.chunk_size must be between 1 and %d", MaxChunkSize)
	}
	if cfg.MaxReadErrors < 1 {
		return errors.New("server.max_read_errors must be at least 1")
	}
	if cfg.IdleTimeout < 0 {
		return errors.New("server.idle_timeout must not be negative")
	}
	if cfg.AcceptRate < 0 {
		return errors.New("server.accept_rate must not be negative")
	}
	if cfg.AcceptRate > 0 && cfg.AcceptBurst < 1 {
		return errors.New("server.accept_burst must be at least 1 when accept_rate is set")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	}
	return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
}
