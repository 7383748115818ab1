package gotimer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/gotimer/internal/errorutil"
	"github.com/ghettovoice/gotimer/internal/types"
	"github.com/ghettovoice/gotimer/log"
)

// TimerState represents the current state of a timer.
type TimerState string

const (
	// TimerStateSet indicates the timer is created but not started yet.
	TimerStateSet TimerState = "set"
	// TimerStateRunning indicates the timer is counting down.
	TimerStateRunning TimerState = "running"
	// TimerStateDone indicates the timer expired after running the full timeout.
	TimerStateDone TimerState = "done"
	// TimerStateCancelled indicates the timer was cancelled before expiration.
	TimerStateCancelled TimerState = "cancelled"
)

// IsValid reports whether s is one of the defined timer states.
func (s TimerState) IsValid() bool {
	switch s {
	case TimerStateSet, TimerStateRunning, TimerStateDone, TimerStateCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is a final state.
func (s TimerState) Terminal() bool {
	return s == TimerStateDone || s == TimerStateCancelled
}

const timerCtxKey types.ContextKey = "timer"

// TimerFromContext returns the timer stored in the given context.
func TimerFromContext(ctx context.Context) (*Timer, bool) {
	tmr, ok := ctx.Value(timerCtxKey).(*Timer)
	return tmr, ok
}

// ContextWithTimer returns a copy of ctx carrying the timer.
func ContextWithTimer(ctx context.Context, tmr *Timer) context.Context {
	return context.WithValue(ctx, timerCtxKey, tmr)
}

// DefaultUnit is the default timer tick unit.
const DefaultUnit = time.Millisecond

// TimerOptions contains options for a timer.
type TimerOptions struct {
	// Unit is the tick unit the timeout must be a whole multiple of.
	// If zero, the [DefaultUnit] will be used.
	Unit time.Duration
	// Scheduler is the scheduler that will be used to arm the expiry callback.
	// If nil, the [DefaultScheduler] will be used.
	Scheduler Scheduler
	// Stats is the stats recorder that will observe the timer lifecycle.
	// If nil, no stats are recorded.
	Stats *StatsRecorder
	// Log is the logger that will be used with the timer.
	// If nil, the [log.Default] will be used.
	Log *slog.Logger
}

func (o *TimerOptions) unit() time.Duration {
	if o == nil || o.Unit == 0 {
		return DefaultUnit
	}
	return o.Unit
}

func (o *TimerOptions) scheduler() Scheduler {
	if o == nil || o.Scheduler == nil {
		return DefaultScheduler()
	}
	return o.Scheduler
}

func (o *TimerOptions) stats() *StatsRecorder {
	if o == nil {
		return nil
	}
	return o.Stats
}

func (o *TimerOptions) log() *slog.Logger {
	if o == nil || o.Log == nil {
		return log.Default()
	}
	return o.Log
}

// Timer is a single-shot countdown with an explicit lifecycle.
//
// A timer is created in [TimerStateSet], starts counting down after
// [Timer.Start] and settles exactly once in one of two terminal states:
// [TimerStateDone] when the timeout elapses or [TimerStateCancelled] when
// it is revoked mid-run, whichever comes first. Terminal states are final.
//
// All methods are safe for concurrent use.
type Timer struct {
	timeout time.Duration
	unit    time.Duration

	mu        sync.Mutex
	fsm       *stateless.StateMachine
	waiter    *Waiter
	reg       Registration
	startedAt time.Time
	stoppedAt time.Time

	sched Scheduler
	log   *slog.Logger
	ctx   context.Context

	onStateChanged types.CallbackManager[TimerStateHandler]
	pendingTrs     types.Deque[stateTransition]
}

type stateTransition struct {
	from, to TimerState
}

// NewTimer creates a new timer in the [TimerStateSet] state.
//
// The timeout must be a positive whole multiple of the configured unit:
// [ErrFractionalTimeout] is returned when it is not a whole multiple,
// [ErrTimeoutOutOfBounds] when it is below one unit.
func NewTimer(ctx context.Context, timeout time.Duration, opts *TimerOptions) (*Timer, error) {
	unit := opts.unit()
	if unit < 0 {
		return nil, errtrace.Wrap(NewInvalidArgumentError("invalid unit %v", unit))
	}
	if timeout%unit != 0 {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrFractionalTimeout,
			"timeout %v is not a whole number of %v units", timeout, unit))
	}
	if timeout < unit {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrTimeoutOutOfBounds,
			"timeout %v is below one %v unit", timeout, unit))
	}

	tmr := &Timer{
		timeout: timeout,
		unit:    unit,
		sched:   opts.scheduler(),
		log:     opts.log(),
	}
	tmr.ctx = ContextWithTimer(ctx, tmr)

	if err := tmr.initFSM(TimerStateSet); err != nil {
		return nil, errtrace.Wrap(err)
	}

	opts.stats().handleNewTimer(tmr)

	tmr.log.LogAttrs(tmr.ctx, slog.LevelDebug, "timer created", slog.Any("timer", tmr))

	return tmr, nil
}

const (
	tmrEvtStart  = "start"
	tmrEvtExpire = "expire"
	tmrEvtCancel = "cancel"
)

func (t *Timer) initFSM(start TimerState) error {
	if !start.IsValid() {
		return errtrace.Wrap(NewInvalidArgumentError("invalid timer state %q", start))
	}

	t.fsm = stateless.NewStateMachine(start)
	t.fsm.OnTransitioned(func(_ context.Context, tr stateless.Transition) {
		from, _ := tr.Source.(TimerState)
		to, _ := tr.Destination.(TimerState)
		t.pendingTrs.Append(stateTransition{from: from, to: to})
	})

	t.fsm.Configure(TimerStateSet).
		Permit(tmrEvtStart, TimerStateRunning)

	t.fsm.Configure(TimerStateRunning).
		OnEntry(t.actRunning).
		Permit(tmrEvtExpire, TimerStateDone).
		Permit(tmrEvtCancel, TimerStateCancelled)

	t.fsm.Configure(TimerStateDone).
		OnEntry(t.actDone)

	t.fsm.Configure(TimerStateCancelled).
		OnEntry(t.actCancelled)

	return nil
}

// Start transitions the timer to [TimerStateRunning] and arms the expiry.
// The returned [Waiter] settles with the terminal state of the timer.
//
// Starting an already running timer is a no-op that returns the same
// [Waiter] as the first call. Starting a terminated timer fails with
// [ErrTimerTerminated].
func (t *Timer) Start(ctx context.Context) (*Waiter, error) {
	ctx = ContextWithTimer(ctx, t)

	t.mu.Lock()
	switch state := t.State(); state {
	case TimerStateRunning:
		w := t.waiter
		t.mu.Unlock()
		return w, nil
	case TimerStateSet:
	default:
		t.mu.Unlock()
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrTimerTerminated, "timer is %s", state))
	}

	if err := t.fsm.FireCtx(ctx, tmrEvtStart); err != nil {
		t.mu.Unlock()
		return nil, errtrace.Wrap(err)
	}
	w := t.waiter
	t.mu.Unlock()

	t.deliverPendingTrs()

	return w, nil
}

// Cancel revokes a running timer: the armed expiry is discarded and the
// [Waiter] returned from [Timer.Start] settles with [TimerStateCancelled].
//
// Cancelling a timer that is not running fails with [ErrTimerNotRunning].
func (t *Timer) Cancel(ctx context.Context) (*Waiter, error) {
	ctx = ContextWithTimer(ctx, t)

	t.mu.Lock()
	if state := t.State(); state != TimerStateRunning {
		t.mu.Unlock()
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrTimerNotRunning, "timer is %s", state))
	}

	w := t.waiter
	if err := t.fsm.FireCtx(ctx, tmrEvtCancel); err != nil {
		t.mu.Unlock()
		return nil, errtrace.Wrap(err)
	}
	t.mu.Unlock()

	t.deliverPendingTrs()

	return w, nil
}

// OnStateChanged registers a callback to be called when the timer changes state.
//
// The callback will be called with the timer's context, see [Timer.Context].
// The timer can be retrieved from the context using [TimerFromContext].
//
// The callback can be canceled by calling the returned cancel function.
// Multiple callbacks can be registered.
func (t *Timer) OnStateChanged(fn TimerStateHandler) (cancel func()) {
	cancel = t.onStateChanged.Add(fn)
	t.deliverPendingTrs()
	return cancel
}

func (t *Timer) deliverPendingTrs() {
	if t.onStateChanged.Len() == 0 {
		return
	}

	trs := t.pendingTrs.Drain()
	if len(trs) == 0 {
		return
	}

	for fn := range t.onStateChanged.All() {
		for _, tr := range trs {
			fn(t.ctx, tr.from, tr.to)
		}
	}
}

func (t *Timer) actRunning(ctx context.Context, _ ...any) error {
	t.startedAt = time.Now()
	t.waiter = newWaiter()
	t.reg = t.sched.AfterFunc(t.timeout, t.expireHdlr(t.ctx))

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer started",
		slog.Any("timer", t), slog.Time("expires_at", t.startedAt.Add(t.timeout)))

	return nil
}

//nolint:unparam
func (t *Timer) actDone(ctx context.Context, _ ...any) error {
	t.stoppedAt = time.Now()
	t.reg = nil
	t.waiter.settle(TimerStateDone)

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer done", slog.Any("timer", t))

	return nil
}

//nolint:unparam
func (t *Timer) actCancelled(ctx context.Context, _ ...any) error {
	t.stoppedAt = time.Now()
	if t.reg != nil {
		t.reg.Stop()
		t.reg = nil
	}
	t.waiter.settle(TimerStateCancelled)

	t.log.LogAttrs(ctx, slog.LevelDebug, "timer cancelled", slog.Any("timer", t))

	return nil
}

func (t *Timer) expireHdlr(ctx context.Context) func() {
	return func() {
		t.log.LogAttrs(ctx, slog.LevelDebug, "timer expired", slog.Any("timer", t))

		t.mu.Lock()
		if t.State() != TimerStateRunning {
			t.mu.Unlock()
			return
		}
		err := t.fsm.FireCtx(ctx, tmrEvtExpire)
		t.mu.Unlock()
		if err != nil {
			panic(fmt.Errorf("fire %q in state %q: %w", tmrEvtExpire, t.State(), err))
		}

		t.deliverPendingTrs()
	}
}

// State returns the current timer state.
func (t *Timer) State() TimerState {
	if t == nil {
		return ""
	}
	return t.fsm.MustState().(TimerState) //nolint:forcetypeassert
}

// Timeout returns the total duration the timer runs for.
func (t *Timer) Timeout() time.Duration {
	if t == nil {
		return 0
	}
	return t.timeout
}

// Unit returns the tick unit the timeout is counted in.
func (t *Timer) Unit() time.Duration {
	if t == nil {
		return 0
	}
	return t.unit
}

// StartedAt returns the time the timer was started.
// Zero if the timer was not started yet.
func (t *Timer) StartedAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startedAt
}

// StoppedAt returns the time the timer reached a terminal state.
// Zero while the timer is not terminated.
func (t *Timer) StoppedAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stoppedAt
}

// Elapsed returns the time the timer has been running.
func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedUnsafe()
}

// elapsedUnsafe computes the elapsed duration without locking.
// Caller must hold the mutex.
func (t *Timer) elapsedUnsafe() time.Duration {
	switch t.State() {
	case TimerStateRunning:
		return time.Since(t.startedAt)
	case TimerStateDone, TimerStateCancelled:
		if !t.stoppedAt.IsZero() {
			return t.stoppedAt.Sub(t.startedAt)
		}
		return t.timeout
	}
	return 0
}

// Left returns the time remaining until the timer expires.
// Returns 0 unless the timer is running.
func (t *Timer) Left() time.Duration {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State() != TimerStateRunning {
		return 0
	}
	left := t.timeout - t.elapsedUnsafe()
	if left < 0 {
		return 0
	}
	return left
}

// Context returns the timer's context.
// It carries the timer and is the context state change callbacks
// are called with.
func (t *Timer) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// LogValue implements [slog.LogValuer].
func (t *Timer) LogValue() slog.Value {
	if t == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Any("state", t.State()),
		slog.Duration("timeout", t.timeout),
		slog.Duration("unit", t.unit),
	)
}
