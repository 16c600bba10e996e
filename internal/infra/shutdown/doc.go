// Package shutdown provides graceful shutdown for authline-server.
//
// A Handler waits for SIGINT/SIGTERM (or a programmatic Trigger, used
// when the listener fails) and then runs registered hooks in reverse
// registration order under a shared timeout.
package shutdown
