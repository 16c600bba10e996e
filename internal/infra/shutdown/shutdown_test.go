package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.hooks == nil {
		t.Error("hooks should be initialized")
	}
	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func waitResult(t *testing.T, h *Handler, fire func()) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	// Give Wait time to install its signal handler.
	time.Sleep(50 * time.Millisecond)
	fire()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
		return nil
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	err := waitResult(t, h, func() { syscall.Kill(syscall.Getpid(), syscall.SIGINT) })
	if err != nil {
		t.Errorf("Wait() returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_Trigger(t *testing.T) {
	h := NewHandler(time.Second)
	cause := errors.New("listen tcp: address already in use")

	var called bool
	h.OnShutdown(func(ctx context.Context) error {
		called = true
		if _, ok := ctx.Deadline(); !ok {
			t.Error("hook context should carry the shutdown deadline")
		}
		return nil
	})

	err := waitResult(t, h, func() {
		h.Trigger(cause)
		h.Trigger(errors.New("second trigger is dropped"))
	})
	if !errors.Is(err, cause) {
		t.Errorf("Wait() = %v, want wrapping %v", err, cause)
	}
	if !called {
		t.Error("hook was not called")
	}
}

func TestHandler_Wait_HookError(t *testing.T) {
	h := NewHandler(5 * time.Second)
	hookErr := errors.New("hook error")

	h.OnShutdown(func(ctx context.Context) error { return nil })
	h.OnShutdown(func(ctx context.Context) error { return hookErr })
	h.OnShutdown(func(ctx context.Context) error { return nil })

	err := waitResult(t, h, func() { syscall.Kill(syscall.Getpid(), syscall.SIGTERM) })
	if !errors.Is(err, hookErr) {
		t.Errorf("Wait() returned %v, want %v", err, hookErr)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(ctx context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("expected 10 hooks, got %d", len(h.hooks))
	}
}

func TestHandler_Wait_HookDeadlinesAreIndependent(t *testing.T) {
	h := NewHandler(100 * time.Millisecond)

	var lateErr error
	var lateBudget time.Duration
	// Registered first, so it runs after the slow hook.
	h.OnShutdownTimeout(time.Second, func(ctx context.Context) error {
		lateErr = ctx.Err()
		if deadline, ok := ctx.Deadline(); ok {
			lateBudget = time.Until(deadline)
		}
		return nil
	})
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := waitResult(t, h, func() { h.Trigger(nil) })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want the slow hook's deadline error", err)
	}
	if lateErr != nil {
		t.Errorf("later hook got an expired context: %v", lateErr)
	}
	if lateBudget < 500*time.Millisecond {
		t.Errorf("later hook budget = %v, want close to 1s", lateBudget)
	}
}
