// Package loop drives the engine: it owns the event loop, the frame
// clock and the per-frame render sequence, and wires the window,
// renderer, surface and UI context together. It depends only on the
// core abstractions so the driver can run against fakes.
package loop

import (
	"sync"

	"github.com/emberforge/ember/engine/core"
)

// RepaintSignal lets any goroutine request a redraw. Requests are
// coalesced: while one is pending, further calls are no-ops. Request
// also wakes the event loop if it is parked waiting for OS events.
type RepaintSignal struct {
	ch chan struct{}

	mu  sync.Mutex
	win core.Window
}

func newRepaintSignal(win core.Window) *RepaintSignal {
	return &RepaintSignal{ch: make(chan struct{}, 1), win: win}
}

// Request asks for a redraw. Safe for concurrent use.
func (s *RepaintSignal) Request() {
	select {
	case s.ch <- struct{}{}:
	default:
		// Already pending; coalesce.
	}
	s.mu.Lock()
	s.win.PostEmptyEvent()
	s.mu.Unlock()
}

// pending consumes a queued request, if any. Loop thread only.
func (s *RepaintSignal) pending() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
