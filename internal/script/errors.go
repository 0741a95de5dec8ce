package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrUnsupportedDialog is returned for view-models the scripted
	// visualizer cannot drive.
	ErrUnsupportedDialog = errors.New("unsupported dialog")
)
