package lineserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/authline/internal/auth"
	"github.com/yndnr/authline/internal/telemetry/metric"
)

// ErrServerClosed is returned by Serve after Shutdown has been called.
var ErrServerClosed = errors.New("lineserver: server closed")

// Accept retry backoff bounds.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Config holds the line server configuration.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string
	// ChunkSize is the largest number of bytes consumed by one read.
	ChunkSize int
	// MaxReadErrors closes a connection after this many consecutive
	// non-fatal read errors.
	MaxReadErrors int
	// IdleTimeout closes a connection that sends nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration
	// AcceptRate limits accepted connections per second. Zero disables it.
	AcceptRate float64
	// AcceptBurst is the limiter burst when AcceptRate is set.
	AcceptBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:          "localhost:8219",
		ChunkSize:     1024,
		MaxReadErrors: 16,
		AcceptBurst:   16,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records server activity in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = reg
	}
}

// WithListener serves on an existing listener instead of binding Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) {
		s.ln = ln
	}
}

// Server accepts TCP connections and runs the token-then-commands
// protocol on each of them.
type Server struct {
	cfg      *Config
	verifier auth.Verifier
	handler  *CommandHandler
	logger   *slog.Logger
	metrics  *metric.Registry
	limiter  *rate.Limiter

	mu      sync.Mutex
	ln      net.Listener
	conns   map[*Conn]struct{}
	closed  bool
	running atomic.Bool
	wg      sync.WaitGroup

	active        atomic.Int64
	authenticated atomic.Int64
}

// New creates a line server. verifier decides which tokens are accepted.
// cfg is copied; zero limits fall back to DefaultConfig.
func New(cfg *Config, verifier auth.Verifier, logger *slog.Logger, opts ...Option) *Server {
	def := DefaultConfig()
	if cfg == nil {
		cfg = def
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := *cfg
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.MaxReadErrors <= 0 {
		c.MaxReadErrors = def.MaxReadErrors
	}

	s := &Server{
		cfg:      &c,
		verifier: verifier,
		handler:  NewCommandHandler(),
		logger:   logger,
		conns:    make(map[*Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if c.AcceptRate > 0 {
		burst := c.AcceptBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(c.AcceptRate), burst)
	}

	return s
}

// Listen binds the configured address. It is called by Serve when no
// listener exists yet; calling it first lets the caller learn the bound
// address before serving.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until Shutdown is called or ctx is done.
// A bind failure is returned immediately. Per-connection failures never
// stop the accept loop.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.ln
	s.running.Store(true)
	s.mu.Unlock()

	s.logger.Info("listening", "address", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() {
		s.running.Store(false)
		_ = ln.Close()
	})
	defer stop()

	return s.acceptLoop(ctx, ln)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	var delay time.Duration

	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil
			}
		}

		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			s.metrics.AcceptFailed()
			delay = nextAcceptDelay(delay)
			s.logger.Warn("failed to establish a connection", "error", err, "retry_in", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		delay = 0

		conn := newConn(c, s.cfg.ChunkSize, s.cfg.IdleTimeout)
		if !s.track(conn) {
			_ = conn.Close()
			return nil
		}

		s.metrics.ConnAccepted()
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.serveConn(conn)
		}()
	}
}

func nextAcceptDelay(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptDelay
	}
	d *= 2
	if d > maxAcceptDelay {
		d = maxAcceptDelay
	}
	return d
}

// track registers c and reserves a WaitGroup slot for its handler. It
// reports false once shutdown has begun.
func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

// Shutdown stops accepting connections and waits for open connections
// to finish. If ctx expires first, the remaining connections are closed
// and ctx.Err() is returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.running.Store(false)
	ln := s.ln
	s.mu.Unlock()

	var closeErr error
	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			closeErr = err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return closeErr
	case <-ctx.Done():
	}

	s.mu.Lock()
	remaining := len(s.conns)
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	s.logger.Warn("shutdown deadline exceeded, closed open connections", "count", remaining)
	<-done
	return ctx.Err()
}

// ActiveConns returns the number of open connections.
func (s *Server) ActiveConns() int {
	return int(s.active.Load())
}

// AuthenticatedConns returns the number of open authenticated connections.
func (s *Server) AuthenticatedConns() int {
	return int(s.authenticated.Load())
}

var _ metric.ConnStats = (*Server)(nil)
