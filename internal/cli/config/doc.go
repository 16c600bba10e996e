// Package config reads and writes the authline-cli settings file.
//
// The file supplies defaults for the global flags:
//
//	server: localhost:8219
//	token: TOKEN
//	output: text
//	timeout: 5s
//
// Precedence, lowest first: built-in defaults, the file, AUTHLINE_CLI_*
// variables, the variables named by each flag, then flags.
package config
