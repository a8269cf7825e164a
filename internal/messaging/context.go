// Package messaging implements the transport substrate of spec §4.3–§4.5:
// a shared Context (C4), the socket patterns (C6), and their proxies
// (C7), all built directly on github.com/luxfi/zmq/v4 — the pack's
// idiomatic-Go stand-in for "a ZeroMQ-equivalent carrier" (spec §1, §9).
package messaging

import (
	"context"
	"sync"
)

// Context is a shared, cloneable handle to a single transport context per
// process group (spec §4.3). Sockets created from Clone()s of the same
// Context can communicate over inproc:// endpoints.
type Context struct {
	base      context.Context
	cancel    context.CancelFunc
	ioThreads int

	mu       sync.Mutex
	refCount int
}

// NewContext creates a process-wide Context sized for ioThreads I/O
// threads (ioThreads <= 0 is normalized to 1).
func NewContext(ioThreads int) *Context {
	if ioThreads <= 0 {
		ioThreads = 1
	}
	base, cancel := context.WithCancel(context.Background())
	return &Context{base: base, cancel: cancel, ioThreads: ioThreads, refCount: 1}
}

// Clone returns a new handle to the same underlying transport context,
// incrementing its reference count.
func (c *Context) Clone() *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refCount++
	return c
}

// Done returns the context.Context sockets should poll against so they
// unblock when the last reference drops.
func (c *Context) Done() context.Context { return c.base }

// IOThreads reports the configured I/O-thread count.
func (c *Context) IOThreads() int { return c.ioThreads }

// Close drops one reference; the transport context (and every socket
// still bound to it) is torn down once the last reference is released.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refCount == 0 {
		return
	}
	c.refCount--
	if c.refCount == 0 {
		c.cancel()
	}
}
