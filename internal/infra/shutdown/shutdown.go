package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []hook
	mu      sync.Mutex
	trigger chan error
	done    chan struct{}
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		hooks:   make([]hook, 0),
		trigger: make(chan error, 1),
		done:    make(chan struct{}),
	}
}

type hook struct {
	fn      func(context.Context) error
	timeout time.Duration
}

// OnShutdown registers a shutdown hook bounded by the handler timeout.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(fn func(context.Context) error) {
	h.OnShutdownTimeout(h.timeout, fn)
}

// OnShutdownTimeout registers a shutdown hook with its own deadline.
// Each hook's context starts when that hook starts, so a slow hook does
// not leave later hooks with an expired context.
func (h *Handler) OnShutdownTimeout(timeout time.Duration, fn func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook{fn: fn, timeout: timeout})
}

// Trigger starts shutdown without a signal. cause, if non-nil, is
// returned from Wait joined with any hook errors. Only the first call
// has an effect.
func (h *Handler) Trigger(cause error) {
	select {
	case h.trigger <- cause:
	default:
	}
}

// Wait blocks until a signal or Trigger, then executes hooks.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var cause error
	select {
	case <-sigCh:
	case cause = <-h.trigger:
	}

	h.mu.Lock()
	hooks := make([]hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	errs := []error{cause}
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].run(); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

func (k hook) run() error {
	ctx, cancel := context.WithTimeout(context.Background(), k.timeout)
	defer cancel()
	return k.fn(ctx)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
