package memento

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrInvalidBatchState indicates unbalanced batch calls, or an undo/redo
	// attempted while a batch is open.
	ErrInvalidBatchState = errors.New("invalid batch state")

	// ErrUndoApplicationFailed indicates a record could not be applied to its
	// live target during undo or redo.
	ErrUndoApplicationFailed = errors.New("undo application failed")
)

// ApplyError reports which record failed during replay.
type ApplyError struct {
	Op     string // "undo" or "redo"
	Record *ChangeRecord
	Err    error
}

func (e *ApplyError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, ErrUndoApplicationFailed, e.Err)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Record, ErrUndoApplicationFailed, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is matches ErrUndoApplicationFailed as well as the wrapped cause.
func (e *ApplyError) Is(target error) bool {
	return target == ErrUndoApplicationFailed
}
