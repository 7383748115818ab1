package gotimer

import (
	"context"
	"sync"

	"braces.dev/errtrace"
)

// Waiter is a handle to await the timer outcome.
//
// A waiter settles exactly once, with [TimerStateDone] when the timer
// expires or [TimerStateCancelled] when it is cancelled mid-run. Once
// settled the result stays readable forever.
type Waiter struct {
	done chan struct{}

	mu      sync.Mutex
	result  TimerState
	settled bool
}

func newWaiter() *Waiter {
	return &Waiter{done: make(chan struct{})}
}

func (w *Waiter) settle(result TimerState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.settled {
		return
	}
	w.result = result
	w.settled = true
	close(w.done)
}

// Done returns a channel that is closed when the waiter settles.
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the waiter settles or ctx is done.
// It returns the terminal timer state, or the ctx error if ctx
// expired first. Cancelling ctx abandons the wait only, the timer
// keeps running.
func (w *Waiter) Wait(ctx context.Context) (TimerState, error) {
	select {
	case <-w.done:
	case <-ctx.Done():
		select {
		case <-w.done:
		default:
			return "", errtrace.Wrap(ctx.Err())
		}
	}

	res, _ := w.Result()
	return res, nil
}

// Result returns the terminal state the timer settled in.
// The second return value reports whether the waiter has settled.
func (w *Waiter) Result() (TimerState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.settled
}

// Settled reports whether the waiter has settled.
func (w *Waiter) Settled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settled
}
