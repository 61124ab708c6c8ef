// Package reload drives the live-reload mechanism: a shared monotonic
// version counter bumped by a file-change watcher and awaited by streaming
// connections.
package reload

import (
	"context"
	"sync"
	"time"
)

// State is a monitor around a monotonically increasing version counter.
// One State is shared by every connection of a preview server instance.
//
// Waiters block on a broadcast channel that Bump closes and replaces, so an
// arbitrary number of concurrent waiters wake on a single bump without
// serializing bumps behind reads.
type State struct {
	mu      sync.Mutex
	version uint64
	changed chan struct{}
}

// NewState returns a State at version 0.
func NewState() *State {
	return &State{changed: make(chan struct{})}
}

// Bump increments the version and wakes all waiters.
func (s *State) Bump() {
	s.mu.Lock()
	s.version++
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// Get returns the current version without blocking.
func (s *State) Get() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// WaitForChange blocks until the version differs from lastSeen, the timeout
// elapses, or ctx is done. It returns the new version and true on a change;
// on timeout or cancellation it returns lastSeen and false so streaming
// callers can emit a keepalive and retry.
func (s *State) WaitForChange(ctx context.Context, lastSeen uint64, timeout time.Duration) (uint64, bool) {
	s.mu.Lock()
	if s.version != lastSeen {
		v := s.version
		s.mu.Unlock()
		return v, true
	}
	changed := s.changed
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-changed:
		return s.Get(), true
	case <-timer.C:
		return lastSeen, false
	case <-ctx.Done():
		return lastSeen, false
	}
}
