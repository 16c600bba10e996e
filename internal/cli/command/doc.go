// Package command defines the authline-cli commands.
//
// Every networked command opens one connection, authenticates with the
// --token flag (or AUTH_TOKEN) and closes the connection when done:
//
//	authline-cli ping --count 3
//	authline-cli send hello
//	authline-cli repl
//
// hash-token and version work offline.
package command
