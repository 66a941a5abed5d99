package lua

import "errors"

// Errors for Lua symbol scripts.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its time budget.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)
