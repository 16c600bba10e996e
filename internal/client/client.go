package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

var (
	// ErrAuthRejected is returned when the server rejects the token.
	ErrAuthRejected = errors.New("client: authentication rejected")
	// ErrUnexpectedReply is returned when a reply does not match the protocol.
	ErrUnexpectedReply = errors.New("client: unexpected reply")
	// ErrNotAuthenticated is returned by commands sent before Authenticate.
	ErrNotAuthenticated = errors.New("client: not authenticated")
)

const (
	replyAuthenticated  = "Authenticated"
	replyInvalidToken   = "Invalid authentication token!"
	replyUnknownCommand = "unknown command"
	pongPrefix          = "pong! "
)

// DefaultTimeout bounds each request/reply exchange.
const DefaultTimeout = 5 * time.Second

// Client is a connection to an authline server. A Client is safe for
// concurrent use; requests are serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu            sync.Mutex
	conn          net.Conn
	r             *bufio.Reader
	authenticated bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-exchange timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	c := &Client{addr: addr, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	return c, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Authenticate sends token as the first message. A rejection returns
// ErrAuthRejected; the server closes the connection afterwards.
func (c *Client) Authenticate(token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, err := c.exchange(token + "\n")
	if err != nil {
		return err
	}
	switch reply {
	case replyAuthenticated:
		c.authenticated = true
		return nil
	case replyInvalidToken:
		return ErrAuthRejected
	default:
		return fmt.Errorf("%w: %q", ErrUnexpectedReply, reply)
	}
}

// Send sends one message and returns the reply without its newline.
func (c *Client) Send(msg string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.authenticated {
		return "", ErrNotAuthenticated
	}
	return c.exchange(msg + "\n")
}

// PingResult holds the outcome of one ping.
type PingResult struct {
	// Server is the processing time reported by the server.
	Server time.Duration `json:"server" yaml:"server"`
	// RoundTrip is the time measured by the client.
	RoundTrip time.Duration `json:"round_trip" yaml:"round_trip"`
}

// Ping sends "ping" and parses the reported processing time.
func (c *Client) Ping() (PingResult, error) {
	start := time.Now()
	reply, err := c.Send("ping")
	if err != nil {
		return PingResult{}, err
	}
	rtt := time.Since(start)

	d, err := ParsePong(reply)
	if err != nil {
		return PingResult{}, err
	}
	return PingResult{Server: d, RoundTrip: rtt}, nil
}

// ParsePong extracts the duration from a "pong! <duration>" reply.
func ParsePong(reply string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(reply, pongPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnexpectedReply, reply)
	}
	d, err := time.ParseDuration(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: bad duration %q", ErrUnexpectedReply, rest)
	}
	return d, nil
}

// IsUnknownCommand reports whether reply is the server's answer to an
// unrecognized command.
func IsUnknownCommand(reply string) bool {
	return reply == replyUnknownCommand
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) exchange(msg string) (string, error) {
	if c.conn == nil {
		return "", net.ErrClosed
	}
	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return "", err
		}
	}

	if _, err := c.conn.Write([]byte(msg)); err != nil {
		return "", err
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}
