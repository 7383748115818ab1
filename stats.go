package gotimer

import (
	"context"
	"sync/atomic"
	"time"
)

// TimerStats is a point-in-time report of timer lifecycle counters.
type TimerStats struct {
	// Time is the report timestamp.
	Time time.Time `json:"time"`
	// Running is a number of currently running timers.
	Running uint64 `json:"running"`
	// CreatedTotal is a total number of created timers.
	CreatedTotal uint64 `json:"created_total"`
	// StartedTotal is a total number of started timers.
	StartedTotal uint64 `json:"started_total"`
	// ExpiredTotal is a total number of expired timers.
	ExpiredTotal uint64 `json:"expired_total"`
	// CancelledTotal is a total number of cancelled timers.
	CancelledTotal uint64 `json:"cancelled_total"`
}

// StatsRecorder records timer lifecycle statistics.
// A single recorder can observe any number of timers, see [TimerOptions.Stats].
type StatsRecorder struct {
	running atomic.Int64

	createdTotal,
	startedTotal,
	expiredTotal,
	cancelledTotal atomic.Uint64
}

func (rcdr *StatsRecorder) handleNewTimer(tmr *Timer) {
	if rcdr == nil {
		return
	}

	//nolint:exhaustive
	switch tmr.State() {
	case TimerStateSet:
		rcdr.createdTotal.Add(1)
	case TimerStateRunning:
		// restored mid-run
		rcdr.running.Add(1)
		rcdr.startedTotal.Add(1)
	}

	tmr.OnStateChanged(func(_ context.Context, _, to TimerState) {
		//nolint:exhaustive
		switch to {
		case TimerStateRunning:
			rcdr.running.Add(1)
			rcdr.startedTotal.Add(1)
		case TimerStateDone:
			rcdr.running.Add(-1)
			rcdr.expiredTotal.Add(1)
		case TimerStateCancelled:
			rcdr.running.Add(-1)
			rcdr.cancelledTotal.Add(1)
		}
	})
}

// Report returns a statistics report about observed timers.
// Call this function periodically to get updated values.
func (rcdr *StatsRecorder) Report() TimerStats {
	if rcdr == nil {
		return TimerStats{Time: time.Now()}
	}

	return TimerStats{
		Time:           time.Now(),
		Running:        clampToUint64(rcdr.running.Load()),
		CreatedTotal:   rcdr.createdTotal.Load(),
		StartedTotal:   rcdr.startedTotal.Load(),
		ExpiredTotal:   rcdr.expiredTotal.Load(),
		CancelledTotal: rcdr.cancelledTotal.Load(),
	}
}

func clampToUint64(value int64) uint64 {
	if value <= 0 {
		return 0
	}
	return uint64(value)
}
