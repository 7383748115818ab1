package gotimer

import "time"

//go:generate go tool mockgen -source=scheduler.go -destination=internal/testutil/schedmock/scheduler.go -package=schedmock

// Registration is a handle to an armed expiry callback.
type Registration interface {
	// Stop revokes the registration.
	// It reports whether the callback was prevented from running.
	Stop() bool
}

// Scheduler arms expiry callbacks for running timers.
//
// The default implementation is backed by the runtime timers, see
// [DefaultScheduler]. Custom implementations can be plugged in via
// [TimerOptions.Scheduler] to control time in tests or to multiplex
// many timers over a shared clock source.
type Scheduler interface {
	// AfterFunc arms fn to be called in its own goroutine after d elapses.
	AfterFunc(d time.Duration, fn func()) Registration
}

// StdScheduler is a [Scheduler] backed by [time.AfterFunc].
type StdScheduler struct{}

// AfterFunc implements [Scheduler].
func (StdScheduler) AfterFunc(d time.Duration, fn func()) Registration {
	return time.AfterFunc(d, fn)
}

var defScheduler StdScheduler

// DefaultScheduler returns the default scheduler backed by the runtime timers.
func DefaultScheduler() Scheduler {
	return defScheduler
}
