package view

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrBusy is returned when a view already has a request in flight
	ErrBusy = errors.New("request already in flight")
	// ErrClosed is returned by a view that has been closed
	ErrClosed = errors.New("view closed")
)

// task scopes the requests of one view to its lifetime. At most one request
// runs at a time and Close cancels it.
type task struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	closed  bool
}

// begin starts a request; the returned done func must be called when it finishes.
func (t *task) begin(ctx context.Context) (context.Context, func() error, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, nil, ErrClosed
	}
	if t.running {
		return nil, nil, ErrBusy
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.running = true

	done := func() error {
		t.mu.Lock()
		defer t.mu.Unlock()
		cancel()
		t.running = false
		t.cancel = nil
		if t.closed {
			return ErrClosed
		}
		return nil
	}
	return ctx, done, nil
}

func (t *task) inFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *task) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.cancel != nil {
		t.cancel()
	}
}

func (t *task) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
