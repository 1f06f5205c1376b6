package engine

import (
	"context"
	"log/slog"
	"sync"
)

// Recreation is the shared outcome of one in-flight overlay rebuild.
// Every caller that requested recreation while it was in flight holds the
// same Recreation and observes the same result.
type Recreation struct {
	done chan struct{}
	ok   bool
}

// Wait blocks until the rebuild resolves or ctx is done. The bool is the
// rebuild's success.
func (r *Recreation) Wait(ctx context.Context) (bool, error) {
	select {
	case <-r.done:
		return r.ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Done exposes the completion signal for select loops.
func (r *Recreation) Done() <-chan struct{} {
	return r.done
}

// Coordinator serializes overlay rebuilds: at most one runs at a time, and
// concurrent requests collapse onto the in-flight one. Callers never
// block on Recreate itself; the rebuild runs on its own goroutine.
type Coordinator struct {
	rebuild func() error
	logger  *slog.Logger

	mu       sync.Mutex
	inflight *Recreation
}

// NewCoordinator wraps the rebuild work. rebuild must be safe to run from
// a fresh goroutine.
func NewCoordinator(rebuild func() error, logger *slog.Logger) *Coordinator {
	return &Coordinator{rebuild: rebuild, logger: logger}
}

// Recreate requests a rebuild. If one is in flight its Recreation is
// returned; otherwise a new rebuild starts.
func (c *Coordinator) Recreate() *Recreation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != nil {
		return c.inflight
	}
	rec := &Recreation{done: make(chan struct{})}
	c.inflight = rec
	go c.run(rec)
	return rec
}

// InProgress reports whether a rebuild is in flight.
func (c *Coordinator) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// run executes one rebuild. Error or panic, the Recreation resolves and
// the coordinator returns to idle.
func (c *Coordinator) run(rec *Recreation) {
	ok := false
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("overlay rebuild panicked", "panic", r)
			ok = false
		}
		c.mu.Lock()
		c.inflight = nil
		c.mu.Unlock()
		rec.ok = ok
		close(rec.done)
	}()

	if err := c.rebuild(); err != nil {
		c.logger.Error("overlay rebuild failed", "err", err)
		return
	}
	ok = true
}
