// Command authline-server runs the authline TCP service.
//
// Clients must send the shared token as their first message before any
// command is answered. The token comes from AUTH_TOKEN (default "TOKEN")
// and may be given as an Argon2id hash produced by
// "authline-cli hash-token".
//
// Usage:
//
//	authline-server [--config authline.yaml] [--addr host:port] [--log-level debug]
//
// Settings are read from defaults, then the YAML file, then AUTHLINE_*
// variables, then AUTH_TOKEN, then flags. Changing log.level in the file
// takes effect without a restart.
package main
