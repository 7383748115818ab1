package gotimer

import "context"

// Handler type aliases.
type (
	TimerStateHandler = func(ctx context.Context, from, to TimerState)
)
