package memento

import (
	"errors"

	"github.com/dshills/memento/internal/observable"
)

// Logger is the logging surface the service uses.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Availability reports whether undo and redo are possible.
type Availability struct {
	CanUndo bool
	CanRedo bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxEntries bounds the number of undo units.
func WithMaxEntries(n int) Option {
	return func(s *Service) {
		s.stack.SetMaxEntries(n)
	}
}

// Service is the undo/redo facade for one editing scope. It owns its Stack
// and Registry; create one per scope and never share it across scopes.
type Service struct {
	stack    *Stack
	registry *Registry
	logger   Logger

	availability observable.Signal[Availability]
	last         Availability
}

// NewService creates a service with an empty history.
func NewService(opts ...Option) *Service {
	stack := NewStack(DefaultMaxEntries)
	s := &Service{
		stack:    stack,
		registry: NewRegistry(stack),
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	stack.onChange = s.refresh
	return s
}

// RegisterObject starts tracking property changes of obj.
func (s *Service) RegisterObject(obj observable.Object) {
	s.registry.RegisterObject(obj)
}

// UnregisterObject stops tracking obj. Unknown objects are ignored.
func (s *Service) UnregisterObject(obj observable.Object) {
	s.registry.UnregisterObject(obj)
}

// RegisterCollection starts tracking coll and its items.
func (s *Service) RegisterCollection(coll observable.Collection) {
	s.registry.RegisterCollection(coll)
}

// UnregisterCollection stops tracking coll. History is kept.
func (s *Service) UnregisterCollection(coll observable.Collection) {
	s.registry.UnregisterCollection(coll)
}

// IsRegistered reports whether target is tracked.
func (s *Service) IsRegistered(target any) bool {
	return s.registry.IsRegistered(target)
}

// Undo reverts the most recent unit.
func (s *Service) Undo() error {
	desc := describeNext(s.stack.PeekUndo())
	if err := s.stack.Undo(); err != nil {
		s.logFailure("undo", desc, err)
		return err
	}
	s.logger.Debug("undo %q (undo=%d redo=%d)", desc, s.stack.UndoCount(), s.stack.RedoCount())
	return nil
}

// Redo reapplies the most recently undone unit.
func (s *Service) Redo() error {
	desc := describeNext(s.stack.PeekRedo())
	if err := s.stack.Redo(); err != nil {
		s.logFailure("redo", desc, err)
		return err
	}
	s.logger.Debug("redo %q (undo=%d redo=%d)", desc, s.stack.UndoCount(), s.stack.RedoCount())
	return nil
}

func (s *Service) logFailure(op, desc string, err error) {
	if errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo) {
		s.logger.Debug("%s: %v", op, err)
		return
	}
	s.logger.Warn("%s %q failed: %v", op, desc, err)
}

func describeNext(u *Unit, ok bool) string {
	if !ok {
		return ""
	}
	return u.Description()
}

// CanUndo returns true if undo is available.
func (s *Service) CanUndo() bool {
	return s.stack.CanUndo()
}

// CanRedo returns true if redo is available.
func (s *Service) CanRedo() bool {
	return s.stack.CanRedo()
}

// Availability returns both availability flags.
func (s *Service) Availability() Availability {
	return Availability{CanUndo: s.stack.CanUndo(), CanRedo: s.stack.CanRedo()}
}

// OnAvailabilityChanged registers a handler called whenever CanUndo or
// CanRedo flips.
func (s *Service) OnAvailabilityChanged(fn observable.Handler[Availability]) *observable.Subscription {
	return s.availability.Subscribe(fn)
}

// BeginBatch opens a batch.
func (s *Service) BeginBatch(name string) {
	s.stack.BeginBatch(name)
	s.logger.Debug("begin batch %q (depth=%d)", name, s.stack.BatchDepth())
}

// EndBatch closes the innermost batch.
func (s *Service) EndBatch() error {
	if err := s.stack.EndBatch(); err != nil {
		s.logger.Warn("end batch: %v", err)
		return err
	}
	s.logger.Debug("end batch (depth=%d)", s.stack.BatchDepth())
	return nil
}

// CancelBatch abandons every open batch level.
func (s *Service) CancelBatch() error {
	return s.stack.CancelBatch()
}

// BatchScope opens a batch closed by the returned scope's End.
func (s *Service) BatchScope(name string) *BatchScope {
	return s.stack.BatchScope(name)
}

// Transaction runs fn in a batch that is rolled back if fn fails.
func (s *Service) Transaction(name string, fn func() error) error {
	return s.stack.Transaction(name, fn)
}

// IsBatching returns true if a batch is open.
func (s *Service) IsBatching() bool {
	return s.stack.IsBatching()
}

// Checkpoint creates a checkpoint at the current history position.
func (s *Service) Checkpoint() Checkpoint {
	return s.stack.Checkpoint()
}

// UndoToCheckpoint undoes all units since cp.
func (s *Service) UndoToCheckpoint(cp Checkpoint) error {
	return s.stack.UndoToCheckpoint(cp)
}

// RedoToCheckpoint redoes units up to cp.
func (s *Service) RedoToCheckpoint(cp Checkpoint) error {
	return s.stack.RedoToCheckpoint(cp)
}

// Clear removes all history. Registrations are kept.
func (s *Service) Clear() {
	s.stack.Clear()
}

// SetMaxEntries changes the maximum number of undo units.
func (s *Service) SetMaxEntries(n int) {
	s.stack.SetMaxEntries(n)
}

// MaxEntries returns the maximum number of undo units.
func (s *Service) MaxEntries() int {
	return s.stack.MaxEntries()
}

// UndoCount returns the number of undo units available.
func (s *Service) UndoCount() int {
	return s.stack.UndoCount()
}

// RedoCount returns the number of redo units available.
func (s *Service) RedoCount() int {
	return s.stack.RedoCount()
}

// UndoInfo returns info about available undo units, oldest first.
func (s *Service) UndoInfo() []UnitInfo {
	return s.stack.UndoInfo()
}

// RedoInfo returns info about available redo units, next-to-redo last.
func (s *Service) RedoInfo() []UnitInfo {
	return s.stack.RedoInfo()
}

// Stack returns the underlying stack for inspection.
func (s *Service) Stack() *Stack {
	return s.stack
}

// Close unregisters every target and clears the history.
func (s *Service) Close() {
	s.registry.Clear()
	s.stack.Clear()
}

// refresh raises the availability notification if a flag flipped.
func (s *Service) refresh() {
	now := s.Availability()
	if now == s.last {
		return
	}
	s.last = now
	s.availability.Emit(now)
}
