// Package client is a small TCP client for the authline protocol.
//
// The protocol frames messages by read, not by line, so the client
// waits for each reply before sending the next message. Sending two
// messages back to back may let the server see them as one.
package client
