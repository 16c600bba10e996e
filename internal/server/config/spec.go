package config

import "time"

// ServerConfig is the root configuration for authline-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Auth    AuthSection    `koanf:"auth"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures the line protocol listener.
type ServerSection struct {
	// Addr is the TCP address to listen on.
	Addr string `koanf:"addr"`

	// ChunkSize bounds a single read. One read is one protocol message;
	// longer input is split across reads.
	ChunkSize int `koanf:"chunk_size"`

	// MaxReadErrors is how many consecutive read errors an authenticated
	// connection tolerates before it is closed.
	MaxReadErrors int `koanf:"max_read_errors"`

	// IdleTimeout sets a read deadline on every read. Zero disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// AcceptRate limits new connections per second. Zero disables it.
	AcceptRate float64 `koanf:"accept_rate"`
	// AcceptBurst is the limiter bucket size.
	AcceptBurst int `koanf:"accept_burst"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AuthSection holds the shared secret. Token is either plaintext or an
// Argon2id hash; it is set from AUTH_TOKEN at startup and never reloaded.
type AuthSection struct {
	Token string `koanf:"token"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr for the /metrics HTTP server. Empty disables it.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
