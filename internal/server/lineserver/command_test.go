package lineserver

import (
	"strings"
	"testing"
	"time"
)

func TestDecodeChunk(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("ping"), "ping"},
		{"newline", []byte("ping\n"), "ping"},
		{"crlf", []byte("ping\r\n"), "ping"},
		{"surrounding whitespace", []byte("  ping \t\n"), "ping"},
		{"inner whitespace kept", []byte("p ing\n"), "p ing"},
		{"empty", []byte(""), ""},
		{"only whitespace", []byte(" \n"), ""},
		{"invalid utf8", []byte{'p', 0xff, 'g', '\n'}, "p\uFFFDg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeChunk(tt.in); got != tt.want {
				t.Errorf("DecodeChunk(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeToken(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("TOKEN"), "TOKEN"},
		{"newline", []byte("TOKEN\n"), "TOKEN"},
		{"padded", []byte("\t TOKEN \r\n"), "TOKEN"},
		{"invalid utf8", []byte{'T', 0xff, 0xfe}, ""},
		{"multibyte", []byte("tökén\n"), "tökén"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeToken(tt.in); got != tt.want {
				t.Errorf("DecodeToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandHandler_Handle(t *testing.T) {
	h := NewCommandHandler()

	tests := []struct {
		cmd      string
		wantName string
		pong     bool
	}{
		{"ping", CommandPing, true},
		{"PING", CommandUnknown, false},
		{"Ping", CommandUnknown, false},
		{"ping ping", CommandUnknown, false},
		{"", CommandUnknown, false},
		{"hello", CommandUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			res := h.Handle(tt.cmd, time.Now())
			if res.Name != tt.wantName {
				t.Errorf("name = %q, want %q", res.Name, tt.wantName)
			}
			if !tt.pong {
				if res.Reply != ReplyUnknownCommand {
					t.Errorf("reply = %q, want %q", res.Reply, ReplyUnknownCommand)
				}
				if res.Elapsed != 0 {
					t.Errorf("elapsed = %v, want 0 for %q", res.Elapsed, tt.cmd)
				}
				return
			}
			if d := assertPong(t, res.Reply); d != res.Elapsed {
				t.Errorf("reply reports %v, result carries %v", d, res.Elapsed)
			}
		})
	}
}

func TestHandlePing_Elapsed(t *testing.T) {
	start := time.Now().Add(-50 * time.Millisecond)
	reply, elapsed := handlePing(start)
	d := assertPong(t, reply)
	if d != elapsed {
		t.Errorf("reply reports %v, returned %v", d, elapsed)
	}
	if d < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 50ms", d)
	}
}

// assertPong checks that reply is "pong! <duration>\n" and returns the
// parsed duration.
func assertPong(t *testing.T, reply string) time.Duration {
	t.Helper()
	if !strings.HasPrefix(reply, pongPrefix) || !strings.HasSuffix(reply, "\n") {
		t.Fatalf("reply = %q, want %q<duration>\\n", reply, pongPrefix)
	}
	d, err := time.ParseDuration(strings.TrimSuffix(strings.TrimPrefix(reply, pongPrefix), "\n"))
	if err != nil {
		t.Fatalf("pong duration does not parse: %v", err)
	}
	if d < 0 {
		t.Errorf("pong duration = %v, want non-negative", d)
	}
	return d
}
