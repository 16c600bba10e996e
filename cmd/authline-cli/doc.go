// Command authline-cli talks to an authline server.
//
// Usage:
//
//	authline-cli [global flags] <command> [arguments]
//
// Commands:
//
//	ping            Authenticate and measure ping round trips
//	send            Send one message and print the reply
//	repl            Interactive session
//	hash-token      Print an Argon2id hash for AUTH_TOKEN
//	generate-token  Print a random secret
//	config          Show or save CLI settings
//	version         Print version information
//
// Run "authline-cli help <command>" for details.
package main
