// Package audio tracks the single playback slot a quiz session owns.
// At most one synthesis job is active per session: starting a new one
// releases the previous one, and stopping an already-stopped slot is a
// safe no-op.
package audio

import (
	"context"
	"sync"
)

// Controller guards one playback slot. Safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc // nil when idle
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// Begin claims the playback slot, releasing any playback that still holds
// it. The returned context is canceled when Stop is called, when a later
// Begin supersedes this playback, or when parent is canceled. The caller
// must call the returned release function once the playback finishes.
func (c *Controller) Begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	c.cancel = cancel
	c.mu.Unlock()

	release := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A release racing a newer Begin must not touch the newer playback.
		if c.gen != gen || c.cancel == nil {
			cancel()
			return
		}
		c.cancel()
		c.cancel = nil
	}
	return ctx, release
}

// Stop releases the active playback, if any. Calling it repeatedly, or
// concurrently with natural completion, is safe.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Active reports whether a playback currently holds the slot.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
