package memento

import "errors"

// BatchScope provides a convenient way to batch changes using defer.
// Usage:
//
//	func editPerson(svc *Service, p *model.Person) {
//	    defer svc.BatchScope("Edit person").End()
//	    // ... multiple edits ...
//	}
type BatchScope struct {
	stack  *Stack
	active bool
}

// BatchScope opens a batch and returns its scope.
func (s *Stack) BatchScope(name string) *BatchScope {
	s.BeginBatch(name)
	return &BatchScope{
		stack:  s,
		active: true,
	}
}

// End closes the batch. Safe to call multiple times; only the first call
// has effect.
func (b *BatchScope) End() {
	if b.active {
		_ = b.stack.EndBatch()
		b.active = false
	}
}

// Transaction runs fn inside a batch. If fn returns an error, the changes
// recorded by fn are reverted on their targets and discarded, and the
// error is returned. Otherwise the batch is closed normally. If fn panics,
// the changes are rolled back the same way before the panic continues.
func (s *Stack) Transaction(name string, fn func() error) error {
	s.BeginBatch(name)
	mark := len(s.batchRecords)
	depth := s.batchDepth

	done := false
	defer func() {
		if !done {
			_ = s.rollback(mark, depth)
		}
	}()

	err := fn()
	done = true
	if err == nil {
		return s.EndBatch()
	}
	if rerr := s.rollback(mark, depth); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// rollback reverts and drops the records collected since mark and closes
// the batch level opened at depth.
func (s *Stack) rollback(mark, depth int) error {
	if s.batchDepth != depth || len(s.batchRecords) < mark {
		// The batch state is unbalanced; nothing safe to roll back.
		_ = s.CancelBatch()
		return ErrInvalidBatchState
	}

	pending := s.batchRecords[mark:]
	err := s.replay(func() error {
		return newUnit("", pending).revert()
	})

	// Drop the pending records and this level's begin marker.
	s.batchRecords = s.batchRecords[:mark-1]
	s.batchDepth--
	if s.batchDepth == 0 {
		s.resetBatch()
	}
	s.changed()
	return err
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// Checkpoint creates a checkpoint at the current history position.
func (s *Stack) Checkpoint() Checkpoint {
	return Checkpoint{undoDepth: len(s.past)}
}

// UndoToCheckpoint undoes all units since the checkpoint.
func (s *Stack) UndoToCheckpoint(cp Checkpoint) error {
	for s.UndoCount() > cp.undoDepth {
		if err := s.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes units up to the checkpoint depth.
// Note: This only works if the future still holds those units.
func (s *Stack) RedoToCheckpoint(cp Checkpoint) error {
	for s.UndoCount() < cp.undoDepth && s.CanRedo() {
		if err := s.Redo(); err != nil {
			return err
		}
	}
	return nil
}
