package lineserver

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Replies sent by the server. Every reply is newline-terminated.
const (
	ReplyAuthenticated  = "Authenticated\n"
	ReplyInvalidToken   = "Invalid authentication token!\n"
	ReplyUnknownCommand = "unknown command\n"

	pongPrefix = "pong! "
)

// Command names used as metric labels. Arbitrary client input is never
// used as a label.
const (
	CommandPing    = "ping"
	CommandUnknown = "unknown"
)

// DecodeChunk turns one received chunk into a command string. Invalid
// UTF-8 sequences become U+FFFD and surrounding whitespace is trimmed.
func DecodeChunk(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "\uFFFD"))
}

// DecodeToken turns the first received chunk into a candidate token.
// Unlike DecodeChunk, invalid UTF-8 yields the empty string so that a
// malformed token can never match.
func DecodeToken(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// Result is the outcome of one command.
type Result struct {
	Reply string
	// Name is the command name to record.
	Name string
	// Elapsed is the latency reported in the reply, zero when the reply
	// carries none.
	Elapsed time.Duration
}

type commandFunc func(start time.Time) (reply string, elapsed time.Duration)

// CommandHandler maps a decoded command to its reply.
type CommandHandler struct {
	handlers map[string]commandFunc
}

// NewCommandHandler returns a handler with the built-in commands.
func NewCommandHandler() *CommandHandler {
	return &CommandHandler{
		handlers: map[string]commandFunc{
			CommandPing: handlePing,
		},
	}
}

// Handle runs cmd. start is when the chunk carrying cmd was received.
func (h *CommandHandler) Handle(cmd string, start time.Time) Result {
	fn, ok := h.handlers[cmd]
	if !ok {
		return Result{Reply: ReplyUnknownCommand, Name: CommandUnknown}
	}
	reply, elapsed := fn(start)
	return Result{Reply: reply, Name: cmd, Elapsed: elapsed}
}

// handlePing reads the clock once; the same value goes into the reply
// and is returned for the latency histogram.
func handlePing(start time.Time) (string, time.Duration) {
	elapsed := time.Since(start)
	return pongPrefix + elapsed.String() + "\n", elapsed
}
