package memento

// DefaultMaxEntries bounds the past sequence when no limit is configured.
const DefaultMaxEntries = 1000

// Stack manages the past and future sequences and batch grouping.
type Stack struct {
	past   []*Unit
	future []*Unit

	// Batch state
	batchDepth   int
	batchName    string
	batchRecords []*ChangeRecord

	// Configuration
	maxEntries int

	seq       uint64
	replaying bool

	// onChange runs after every operation that may affect availability.
	onChange func()
}

// NewStack creates a stack keeping at most maxEntries undo units.
func NewStack(maxEntries int) *Stack {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Stack{
		maxEntries: maxEntries,
	}
}

// Record turns c into a ChangeRecord and pushes it. Every record clears
// the future. Outside a batch it becomes its own undo unit; inside a batch
// it joins the open batch.
// Returns nil while undo/redo replay is running.
func (s *Stack) Record(c Change) *ChangeRecord {
	recs := s.RecordAll(c)
	if len(recs) == 0 {
		return nil
	}
	return recs[0]
}

// RecordAll records several changes as one undo unit (or into the open
// batch).
func (s *Stack) RecordAll(changes ...Change) []*ChangeRecord {
	if s.replaying || len(changes) == 0 {
		return nil
	}

	recs := make([]*ChangeRecord, len(changes))
	for i, c := range changes {
		recs[i] = s.newRecord(c)
	}

	if s.batchDepth > 0 {
		s.batchRecords = append(s.batchRecords, recs...)
		s.future = nil
	} else {
		s.push(newUnit("", recs))
	}

	s.changed()
	return recs
}

func (s *Stack) newRecord(c Change) *ChangeRecord {
	s.seq++
	return newRecord(s.seq, c)
}

// push adds a unit to the past, clears the future and enforces maxEntries.
func (s *Stack) push(u *Unit) {
	s.past = append(s.past, u)
	s.future = nil

	if len(s.past) > s.maxEntries {
		excess := len(s.past) - s.maxEntries
		s.past = s.past[excess:]
	}
}

// Undo reverts the most recent unit and moves it to the future.
//
// If a record cannot be applied the unit is dropped: it is neither on the
// past nor the future afterwards, and the returned error wraps
// ErrUndoApplicationFailed.
func (s *Stack) Undo() error {
	if s.batchDepth > 0 {
		return ErrInvalidBatchState
	}
	if len(s.past) == 0 {
		return ErrNothingToUndo
	}

	u := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]

	if err := s.replay(u.revert); err != nil {
		s.changed()
		return err
	}

	s.future = append(s.future, u)
	s.changed()
	return nil
}

// Redo reapplies the most recently undone unit and moves it back to the past.
// Failure handling matches Undo.
func (s *Stack) Redo() error {
	if s.batchDepth > 0 {
		return ErrInvalidBatchState
	}
	if len(s.future) == 0 {
		return ErrNothingToRedo
	}

	u := s.future[len(s.future)-1]
	s.future = s.future[:len(s.future)-1]

	if err := s.replay(u.reapply); err != nil {
		s.changed()
		return err
	}

	s.past = append(s.past, u)
	if len(s.past) > s.maxEntries {
		s.past = s.past[len(s.past)-s.maxEntries:]
	}
	s.changed()
	return nil
}

// replay runs fn with recording suspended.
func (s *Stack) replay(fn func() error) error {
	s.replaying = true
	defer func() { s.replaying = false }()
	return fn()
}

// Replaying reports whether undo/redo replay is in progress. Changes
// observed meanwhile are the replay itself and are not recorded.
func (s *Stack) Replaying() bool {
	return s.replaying
}

// CanUndo returns true if undo is available.
func (s *Stack) CanUndo() bool {
	return len(s.past) > 0
}

// CanRedo returns true if redo is available.
func (s *Stack) CanRedo() bool {
	return len(s.future) > 0
}

// UndoCount returns the number of undo units available.
func (s *Stack) UndoCount() int {
	return len(s.past)
}

// RedoCount returns the number of redo units available.
func (s *Stack) RedoCount() int {
	return len(s.future)
}

// BeginBatch opens a batch. Changes recorded until the matching EndBatch
// collapse into one undo unit. Nested calls are counted; the outermost name
// describes the unit.
func (s *Stack) BeginBatch(name string) {
	s.batchDepth++
	if s.batchDepth == 1 {
		s.batchName = name
		s.batchRecords = nil
	}
	s.batchRecords = append(s.batchRecords, s.newRecord(Change{
		Kind:     KindBatchBoundary,
		Boundary: BoundaryBegin,
	}))
	s.changed()
}

// EndBatch closes the innermost batch. Closing the outermost batch pushes
// the collected records as one unit, unless nothing was recorded.
// Returns ErrInvalidBatchState when no batch is open.
func (s *Stack) EndBatch() error {
	if s.batchDepth == 0 {
		return ErrInvalidBatchState
	}

	s.batchRecords = append(s.batchRecords, s.newRecord(Change{
		Kind:     KindBatchBoundary,
		Boundary: BoundaryEnd,
	}))
	s.batchDepth--

	if s.batchDepth == 0 {
		records := s.batchRecords
		name := s.batchName
		s.resetBatch()
		if hasMutations(records) {
			s.push(newUnit(name, records))
		}
	}

	s.changed()
	return nil
}

// CancelBatch abandons every open batch level without pushing a unit.
// Mutations already applied stay applied.
func (s *Stack) CancelBatch() error {
	if s.batchDepth == 0 {
		return ErrInvalidBatchState
	}
	s.resetBatch()
	s.changed()
	return nil
}

func (s *Stack) resetBatch() {
	s.batchDepth = 0
	s.batchName = ""
	s.batchRecords = nil
}

// BatchDepth returns the current batch nesting depth.
func (s *Stack) BatchDepth() int {
	return s.batchDepth
}

// IsBatching returns true if a batch is open.
func (s *Stack) IsBatching() bool {
	return s.batchDepth > 0
}

// Clear removes all undo/redo history and any open batch.
func (s *Stack) Clear() {
	s.past = nil
	s.future = nil
	s.resetBatch()
	s.changed()
}

// UndoInfo returns info about available undo units, oldest first.
func (s *Stack) UndoInfo() []UnitInfo {
	result := make([]UnitInfo, len(s.past))
	for i, u := range s.past {
		result[i] = u.info()
	}
	return result
}

// RedoInfo returns info about available redo units, next-to-redo last.
func (s *Stack) RedoInfo() []UnitInfo {
	result := make([]UnitInfo, len(s.future))
	for i, u := range s.future {
		result[i] = u.info()
	}
	return result
}

// PeekUndo returns the next unit to undo without removing it.
func (s *Stack) PeekUndo() (*Unit, bool) {
	if len(s.past) == 0 {
		return nil, false
	}
	return s.past[len(s.past)-1], true
}

// PeekRedo returns the next unit to redo without removing it.
func (s *Stack) PeekRedo() (*Unit, bool) {
	if len(s.future) == 0 {
		return nil, false
	}
	return s.future[len(s.future)-1], true
}

// Past returns a copy of the past sequence, most recent last.
func (s *Stack) Past() []*Unit {
	out := make([]*Unit, len(s.past))
	copy(out, s.past)
	return out
}

// Future returns a copy of the future sequence, next-to-redo last.
func (s *Stack) Future() []*Unit {
	out := make([]*Unit, len(s.future))
	copy(out, s.future)
	return out
}

// SetMaxEntries changes the maximum number of undo units.
// If the past is larger, oldest units are removed.
func (s *Stack) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	s.maxEntries = max

	if len(s.past) > max {
		excess := len(s.past) - max
		s.past = s.past[excess:]
		s.changed()
	}
}

// MaxEntries returns the maximum number of undo units.
func (s *Stack) MaxEntries() int {
	return s.maxEntries
}

func (s *Stack) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
