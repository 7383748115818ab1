package gotimer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"braces.dev/errtrace"
)

// TimerSnapshot represents a snapshot of a timer state.
// It contains all the data needed to serialize and restore a timer.
type TimerSnapshot struct {
	// Time is the snapshot timestamp.
	Time time.Time `json:"time"`
	// State is the current timer state.
	State TimerState `json:"state"`
	// Timeout is the total duration the timer runs for.
	Timeout time.Duration `json:"timeout"`
	// Unit is the tick unit of the timer.
	Unit time.Duration `json:"unit"`
	// StartedAt is the time the timer was started.
	StartedAt time.Time `json:"started_at,omitzero"`
	// StoppedAt is the time the timer reached a terminal state.
	StoppedAt time.Time `json:"stopped_at,omitzero"`
}

func (snap *TimerSnapshot) IsValid() bool {
	return snap != nil &&
		snap.State.IsValid() &&
		snap.Unit > 0 &&
		snap.Timeout >= snap.Unit &&
		snap.Timeout%snap.Unit == 0 &&
		(snap.State == TimerStateSet || !snap.StartedAt.IsZero())
}

// Snapshot returns a snapshot of the timer state that can be serialized.
// The snapshot contains all the data needed to restore the timer after a restart.
func (t *Timer) Snapshot() *TimerSnapshot {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return &TimerSnapshot{
		Time:      time.Now(),
		State:     t.State(),
		Timeout:   t.timeout,
		Unit:      t.unit,
		StartedAt: t.startedAt,
		StoppedAt: t.stoppedAt,
	}
}

// MarshalJSON implements json.Marshaler.
func (t *Timer) MarshalJSON() ([]byte, error) {
	return errtrace.Wrap2(json.Marshal(t.Snapshot()))
}

// RestoreTimer recreates a timer from its snapshot.
//
// A timer restored in [TimerStateRunning] is re-armed with the time left
// on the snapshot clock; if the timeout already elapsed while the timer
// was offline, it expires immediately. The snapshot unit takes precedence
// over [TimerOptions.Unit].
func RestoreTimer(ctx context.Context, snap *TimerSnapshot, opts *TimerOptions) (*Timer, error) {
	if !snap.IsValid() {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid snapshot"))
	}

	var restoreOpts TimerOptions
	if opts != nil {
		restoreOpts = *opts
	}
	restoreOpts.Unit = snap.Unit

	tmr := &Timer{
		timeout:   snap.Timeout,
		unit:      snap.Unit,
		startedAt: snap.StartedAt,
		stoppedAt: snap.StoppedAt,
		sched:     restoreOpts.scheduler(),
		log:       restoreOpts.log(),
	}
	tmr.ctx = ContextWithTimer(ctx, tmr)

	if err := tmr.initFSM(snap.State); err != nil {
		return nil, errtrace.Wrap(err)
	}

	restoreOpts.stats().handleNewTimer(tmr)

	if snap.State == TimerStateRunning {
		tmr.waiter = newWaiter()
		left := tmr.timeout - time.Since(tmr.startedAt)
		if left <= 0 {
			// minimal delay to expire through the scheduler
			left = 1
		}
		tmr.reg = tmr.sched.AfterFunc(left, tmr.expireHdlr(tmr.ctx))
	}

	tmr.log.LogAttrs(tmr.ctx, slog.LevelDebug, "timer restored", slog.Any("timer", tmr))

	return tmr, nil
}
