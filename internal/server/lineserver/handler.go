package lineserver

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"syscall"
	"time"

	"github.com/yndnr/authline/internal/telemetry/metric"
)

// Reasons recorded when a connection closes.
const (
	closePeer        = "peer_closed"
	closeAuthFailed  = "auth_failed"
	closeAuthAborted = "auth_aborted"
	closeReadError   = "read_error"
	closeWriteError  = "write_error"
	closeIdle        = "idle_timeout"
)

func (s *Server) serveConn(c *Conn) {
	defer c.Close()

	s.active.Add(1)
	defer s.active.Add(-1)

	log := s.logger.With("conn_id", c.ID, "remote", c.RemoteAddr().String())
	log.Info("connection established")

	reason := s.handleConn(c, log)
	s.metrics.ConnClosed(reason)
	log.Debug("connection finished", "reason", reason, "phase", c.Phase().String())
}

// handleConn runs the authentication step and, on success, the command
// loop. It returns the close reason.
func (s *Server) handleConn(c *Conn, log *slog.Logger) string {
	if reason, ok := s.authenticate(c, log); !ok {
		return reason
	}

	s.authenticated.Add(1)
	defer s.authenticated.Add(-1)

	return s.commandLoop(c, log)
}

// authenticate consumes exactly one read as the token. There is no
// second attempt.
func (s *Server) authenticate(c *Conn, log *slog.Logger) (string, bool) {
	chunk, err := c.readChunk()
	if len(chunk) == 0 && err != nil {
		s.metrics.AuthResult(metric.AuthError)
		if errors.Is(err, io.EOF) {
			log.Info("client closed connection before authenticating")
		} else {
			s.metrics.ReadFailed()
			log.Error("failed to read authentication token", "error", err)
		}
		return closeAuthAborted, false
	}

	token := DecodeToken(chunk)
	if !s.verifier.Verify(token) {
		s.metrics.AuthResult(metric.AuthFailure)
		log.Warn("authentication failed, closing connection")
		if err := c.writeString(ReplyInvalidToken); err != nil {
			s.metrics.WriteFailed()
			log.Error("failed to send rejection", "error", err)
		}
		s.shutdownConn(c, log)
		return closeAuthFailed, false
	}

	if err := c.writeString(ReplyAuthenticated); err != nil {
		s.metrics.AuthResult(metric.AuthError)
		s.metrics.WriteFailed()
		log.Error("failed to acknowledge authentication", "error", err)
		return closeWriteError, false
	}

	c.authenticate()
	s.metrics.AuthResult(metric.AuthSuccess)
	log.Info("client authenticated")
	return "", true
}

func (s *Server) shutdownConn(c *Conn, log *slog.Logger) {
	err := c.shutdown()
	switch {
	case err == nil:
		log.Debug("connection shut down")
	case errors.Is(err, syscall.ENOTCONN):
		log.Debug("attempted to shut down a stream that is not connected")
	default:
		log.Warn("error shutting down connection", "error", err)
	}
}

// commandLoop answers one reply per read until the peer closes the
// connection or the connection becomes unusable.
func (s *Server) commandLoop(c *Conn, log *slog.Logger) string {
	var readErrors int

	for {
		chunk, err := c.readChunk()
		if len(chunk) > 0 {
			readErrors = 0
			start := time.Now()

			cmd := DecodeChunk(chunk)
			log.Debug("received", "command", cmd)

			res := s.handler.Handle(cmd, start)
			s.metrics.Command(res.Name)
			if res.Name == CommandPing {
				s.metrics.ObservePing(res.Elapsed.Seconds())
			}

			if werr := c.writeString(res.Reply); werr != nil {
				s.metrics.WriteFailed()
				log.Error("failed to write reply, closing connection", "error", werr)
				return closeWriteError
			}
		}

		switch {
		case err == nil && len(chunk) > 0:
			continue
		case err == nil, errors.Is(err, io.EOF):
			log.Info("client closed connection")
			return closePeer
		}

		s.metrics.ReadFailed()

		if isTimeout(err) {
			log.Info("connection idle, closing", "idle_timeout", c.idleTimeout)
			return closeIdle
		}
		if isConnGone(err) {
			log.Warn("connection lost", "error", err)
			return closeReadError
		}

		readErrors++
		log.Error("an error occurred while reading from the stream", "error", err, "consecutive", readErrors)
		if readErrors >= s.cfg.MaxReadErrors {
			log.Error("too many consecutive read errors, closing connection")
			return closeReadError
		}
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnGone reports whether err means no further reads can succeed.
func isConnGone(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE)
}
