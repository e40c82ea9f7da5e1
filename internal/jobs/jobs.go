// Package jobs runs fixed-interval poll loops as cancellable handles.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TickFunc is one poll iteration. Returning false ends the loop.
type TickFunc func(ctx context.Context) bool

// Handle owns a running loop.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn once per interval until fn returns false, ctx ends or the
// handle is cancelled. The first call happens after one interval.
func Every(ctx context.Context, clk clockwork.Clock, interval time.Duration, fn TickFunc) *Handle {
	return start(ctx, clk, interval, fn, false)
}

// EveryNow is Every with an immediate first call.
func EveryNow(ctx context.Context, clk clockwork.Clock, interval time.Duration, fn TickFunc) *Handle {
	return start(ctx, clk, interval, fn, true)
}

func start(ctx context.Context, clk clockwork.Clock, interval time.Duration, fn TickFunc, immediate bool) *Handle {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	loopCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	// The ticker exists before Every returns so a fake clock can be advanced
	// straight away.
	ticker := clk.NewTicker(interval)
	go func() {
		defer close(h.done)
		defer ticker.Stop()
		defer cancel()

		// fn gets the caller's context: cancelling the handle stops scheduling
		// but does not abort a request already in flight.
		if immediate && !fn(ctx) {
			return
		}
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.Chan():
			}
			if loopCtx.Err() != nil {
				return
			}
			if !fn(ctx) {
				return
			}
		}
	}()
	return h
}

// Cancel stops the loop from scheduling further ticks. It is safe to call more
// than once and on a nil handle.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.once.Do(h.cancel)
}

// Done is closed once the loop goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	if h == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return h.done
}

// Wait blocks until the loop goroutine has exited.
func (h *Handle) Wait() {
	<-h.Done()
}

// Running reports whether the loop is still alive.
func (h *Handle) Running() bool {
	select {
	case <-h.Done():
		return false
	default:
		return true
	}
}
