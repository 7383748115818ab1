package gotimer

import "github.com/ghettovoice/gotimer/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)

// Timer errors.
const (
	// ErrFractionalTimeout is returned when the timeout is not a whole number of units.
	ErrFractionalTimeout Error = "fractional timeout"
	// ErrTimeoutOutOfBounds is returned when the timeout is below one unit.
	ErrTimeoutOutOfBounds Error = "timeout out of bounds"
	// ErrTimerTerminated is returned when starting a timer that already reached a terminal state.
	ErrTimerTerminated Error = "timer terminated"
	// ErrTimerNotRunning is returned when cancelling a timer that is not running.
	ErrTimerNotRunning Error = "timer not running"
)

// Error represents a timer error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
