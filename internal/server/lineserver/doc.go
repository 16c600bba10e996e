// Package lineserver implements the authline TCP protocol.
//
// Every accepted connection is served on its own goroutine and moves
// through two phases:
//
//	Unauthenticated --token ok--> Authenticated --EOF/error--> closed
//	       |
//	       +--token mismatch / read error--> closed
//
// The first read on a connection is the token. A match is acknowledged
// with "Authenticated\n"; anything else gets
// "Invalid authentication token!\n" and both directions are shut down.
// There is exactly one attempt.
//
// Once authenticated, each read is one command:
//
//	ping     -> "pong! <processing time>\n"
//	<other>  -> "unknown command\n"
//
// A read returns at most ChunkSize bytes and is dispatched as one
// message; longer input is split across reads and each piece is
// answered on its own. Messages are newline-terminated by convention
// but framing is per read, not per line.
package lineserver
