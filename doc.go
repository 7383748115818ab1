// Package gotimer implements a single-shot countdown timer with an explicit,
// observable lifecycle.
//
// A timer is created in the set state with a validated timeout, counts down
// after an explicit start and settles exactly once in one of two terminal
// states: done when the timeout elapses, cancelled when it is revoked mid-run.
// Consumers await the outcome through a [Waiter] handle and can observe
// transitions via [Timer.OnStateChanged]. Timers can be snapshotted to JSON,
// persisted and restored across restarts with the remaining time re-armed.
package gotimer
