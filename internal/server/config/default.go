package config

import "time"

// Default configuration values.
const (
	DefaultAddr            = "localhost:8219"
	DefaultToken           = "TOKEN"
	DefaultChunkSize       = 1024
	MaxChunkSize           = 64 * 1024
	DefaultMaxReadErrors   = 16
	DefaultAcceptBurst     = 16
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultAddr,
			ChunkSize:       DefaultChunkSize,
			MaxReadErrors:   DefaultMaxReadErrors,
			AcceptBurst:     DefaultAcceptBurst,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Auth: AuthSection{
			Token: DefaultToken,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
