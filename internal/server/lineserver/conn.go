package lineserver

import (
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Phase is the session phase of a connection.
type Phase int32

const (
	// PhaseUnauthenticated is the initial phase; only the token is read.
	PhaseUnauthenticated Phase = iota
	// PhaseAuthenticated is entered once, after a successful token match.
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// connIDPrefix prefixes connection IDs in logs.
const connIDPrefix = "conn-"

// Conn is one client connection. It is owned by a single handler
// goroutine; only Close may be called from elsewhere.
type Conn struct {
	// ID identifies the connection in logs.
	ID string

	netConn     net.Conn
	buf         []byte
	idleTimeout time.Duration
	phase       Phase

	closed atomic.Bool
}

func newConn(c net.Conn, chunkSize int, idleTimeout time.Duration) *Conn {
	return &Conn{
		ID:          connIDPrefix + strings.ToLower(ulid.Make().String()),
		netConn:     c,
		buf:         make([]byte, chunkSize),
		idleTimeout: idleTimeout,
		phase:       PhaseUnauthenticated,
	}
}

// Phase returns the current session phase.
func (c *Conn) Phase() Phase {
	return c.phase
}

// authenticate moves the connection to PhaseAuthenticated. It reports
// false if the connection was already authenticated.
func (c *Conn) authenticate() bool {
	if c.phase == PhaseAuthenticated {
		return false
	}
	c.phase = PhaseAuthenticated
	return true
}

// readChunk performs exactly one Read into the connection buffer. The
// returned slice aliases the buffer and is valid until the next call.
func (c *Conn) readChunk() ([]byte, error) {
	if c.idleTimeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(c.idleTimeout)); err != nil {
			return nil, err
		}
	}
	n, err := c.netConn.Read(c.buf)
	return c.buf[:n], err
}

// writeString writes s in full.
func (c *Conn) writeString(s string) error {
	_, err := io.WriteString(c.netConn, s)
	return err
}

// shutdown closes both directions of a TCP connection while keeping the
// descriptor open. Connections without half-close support are left to
// Close.
func (c *Conn) shutdown() error {
	type halfCloser interface {
		CloseRead() error
		CloseWrite() error
	}
	hc, ok := c.netConn.(halfCloser)
	if !ok {
		return nil
	}
	if err := hc.CloseRead(); err != nil {
		return err
	}
	return hc.CloseWrite()
}

// Close closes the connection. Calls after the first are no-ops.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}
