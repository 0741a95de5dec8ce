package memento

import (
	"errors"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindPropertyChanged, "property"},
		{KindItemAdded, "add"},
		{KindItemRemoved, "remove"},
		{KindBatchBoundary, "boundary"},
		{Kind(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestNewStackDefaults(t *testing.T) {
	s := NewStack(0)
	if s.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want %d", s.MaxEntries(), DefaultMaxEntries)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("new stack should have nothing to undo or redo")
	}
}

func TestStackRecordAssignsSequence(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")

	r1 := s.Record(PropertyChanged(w, "Name", "a", "b"))
	r2 := s.Record(PropertyChanged(w, "Name", "b", "c"))

	if r1.Sequence() == 0 || r2.Sequence() <= r1.Sequence() {
		t.Errorf("sequences not increasing: %d, %d", r1.Sequence(), r2.Sequence())
	}
	if r1.Kind() != KindPropertyChanged || r1.Property() != "Name" {
		t.Errorf("unexpected record %s", r1)
	}
	if r1.Old() != "a" || r1.New() != "b" {
		t.Errorf("got old=%v new=%v", r1.Old(), r1.New())
	}
	if r1.Timestamp().IsZero() {
		t.Error("timestamp not set")
	}
}

func TestStackRecordClearsFuture(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")

	_ = w.SetProperty("Name", "b")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !s.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	s.Record(PropertyChanged(w, "Count", 0, 1))

	if s.CanRedo() || s.RedoCount() != 0 {
		t.Error("future should be empty after a new record")
	}
}

func TestStackUndoRedoRoundTrip(t *testing.T) {
	s := NewStack(100)
	reg := NewRegistry(s)
	w := newWidget("v0")
	reg.RegisterObject(w)

	values := []string{"v0", "v1", "v2", "v3", "v4"}
	for _, v := range values[1:] {
		if err := w.SetProperty("Name", v); err != nil {
			t.Fatalf("SetProperty: %v", err)
		}
	}
	if s.UndoCount() != 4 {
		t.Fatalf("UndoCount = %d, want 4", s.UndoCount())
	}

	for i := len(values) - 2; i >= 0; i-- {
		if err := s.Undo(); err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if w.name != values[i] {
			t.Errorf("after undo got %q, want %q", w.name, values[i])
		}
	}
	if !errors.Is(s.Undo(), ErrNothingToUndo) {
		t.Error("expected ErrNothingToUndo")
	}

	for i := 1; i < len(values); i++ {
		if err := s.Redo(); err != nil {
			t.Fatalf("Redo: %v", err)
		}
		if w.name != values[i] {
			t.Errorf("after redo got %q, want %q", w.name, values[i])
		}
	}
	if !errors.Is(s.Redo(), ErrNothingToRedo) {
		t.Error("expected ErrNothingToRedo")
	}
}

func TestStackUndoRedoKeepsRecordInstances(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")
	_ = w.SetProperty("Name", "b")
	rec := s.Record(PropertyChanged(w, "Name", "a", "b"))

	_ = s.Undo()
	u, ok := s.PeekRedo()
	if !ok || u.Records()[0] != rec {
		t.Fatal("undo should move the same record to the future")
	}
	if len(s.Past()) != 0 {
		t.Error("past and future must not share the record")
	}

	_ = s.Redo()
	u, ok = s.PeekUndo()
	if !ok || u.Records()[0] != rec {
		t.Fatal("redo should move the same record back to the past")
	}
	if len(s.Future()) != 0 {
		t.Error("past and future must not share the record")
	}
}

func TestStackBatchCollapses(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	s.BeginBatch("Edit")
	_ = w.SetProperty("Name", "b")
	_ = w.SetProperty("Count", 7)
	if err := s.EndBatch(); err != nil {
		t.Fatalf("EndBatch: %v", err)
	}

	if s.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", s.UndoCount())
	}
	u, _ := s.PeekUndo()
	if u.Description() != "Edit" || u.Len() != 2 {
		t.Errorf("unit = %q with %d records", u.Description(), u.Len())
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if w.name != "a" || w.count != 0 {
		t.Errorf("undo should revert both: name=%q count=%d", w.name, w.count)
	}

	if err := s.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if w.name != "b" || w.count != 7 {
		t.Errorf("redo should reapply both: name=%q count=%d", w.name, w.count)
	}
}

func TestStackBatchRevertsInReverseOrder(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	s.BeginBatch("")
	_ = w.SetProperty("Name", "b")
	_ = w.SetProperty("Name", "c")
	_ = s.EndBatch()

	_ = s.Undo()
	if w.name != "a" {
		t.Errorf("got %q, want %q", w.name, "a")
	}
	_ = s.Redo()
	if w.name != "c" {
		t.Errorf("got %q, want %q", w.name, "c")
	}
}

func TestStackNestedBatch(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")

	s.BeginBatch("outer")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	s.BeginBatch("inner")
	s.Record(PropertyChanged(w, "Count", 0, 1))
	if err := s.EndBatch(); err != nil {
		t.Fatalf("EndBatch inner: %v", err)
	}
	if s.UndoCount() != 0 {
		t.Error("inner EndBatch must not push a unit")
	}
	if s.BatchDepth() != 1 {
		t.Errorf("BatchDepth = %d, want 1", s.BatchDepth())
	}
	if err := s.EndBatch(); err != nil {
		t.Fatalf("EndBatch outer: %v", err)
	}

	if s.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", s.UndoCount())
	}
	u, _ := s.PeekUndo()
	if u.Description() != "outer" || u.Len() != 2 {
		t.Errorf("unit = %q with %d records", u.Description(), u.Len())
	}

	// begin, change, begin, change, end, end
	recs := u.Records()
	if len(recs) != 6 || recs[0].Boundary() != BoundaryBegin || recs[5].Boundary() != BoundaryEnd {
		t.Errorf("unexpected record layout: %v", recs)
	}
}

func TestStackEmptyBatchPushesNothing(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	_ = s.Undo()

	s.BeginBatch("empty")
	s.BeginBatch("nested empty")
	_ = s.EndBatch()
	_ = s.EndBatch()

	if s.UndoCount() != 0 {
		t.Errorf("UndoCount = %d, want 0", s.UndoCount())
	}
	if s.RedoCount() != 1 {
		t.Error("an empty batch must not clear the future")
	}
}

func TestStackEndBatchUnbalanced(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	s.Record(PropertyChanged(w, "Name", "b", "c"))
	_ = s.Undo()

	err := s.EndBatch()
	if !errors.Is(err, ErrInvalidBatchState) {
		t.Fatalf("EndBatch error = %v, want ErrInvalidBatchState", err)
	}
	if s.UndoCount() != 1 || s.RedoCount() != 1 {
		t.Errorf("past/future changed: undo=%d redo=%d", s.UndoCount(), s.RedoCount())
	}
}

func TestStackUndoDuringBatch(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")
	s.Record(PropertyChanged(w, "Name", "a", "b"))

	s.BeginBatch("open")
	if err := s.Undo(); !errors.Is(err, ErrInvalidBatchState) {
		t.Errorf("Undo during batch = %v, want ErrInvalidBatchState", err)
	}
	_ = s.EndBatch()
}

func TestStackCancelBatch(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")

	if err := s.CancelBatch(); !errors.Is(err, ErrInvalidBatchState) {
		t.Errorf("CancelBatch without batch = %v", err)
	}

	s.BeginBatch("x")
	s.BeginBatch("y")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	if err := s.CancelBatch(); err != nil {
		t.Fatalf("CancelBatch: %v", err)
	}
	if s.IsBatching() || s.UndoCount() != 0 {
		t.Error("cancelled batch should leave nothing behind")
	}
}

func TestStackRecordInBatchClearsFuture(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	_ = w.SetProperty("Name", "b")
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	s.BeginBatch("branch")
	_ = w.SetProperty("Count", 5)
	if s.CanRedo() || s.RedoCount() != 0 {
		t.Errorf("future survived a record inside a batch: redo=%d", s.RedoCount())
	}

	if err := s.CancelBatch(); err != nil {
		t.Fatalf("CancelBatch: %v", err)
	}
	if err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo after cancelled batch = %v, want ErrNothingToRedo", err)
	}
	if w.name != "a" || w.count != 5 {
		t.Errorf("got name=%q count=%d, want a/5", w.name, w.count)
	}
}

func TestStackMaxEntries(t *testing.T) {
	s := NewStack(3)
	w := newWidget("a")
	for i := 0; i < 5; i++ {
		s.Record(PropertyChanged(w, "Count", i, i+1))
	}
	if s.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", s.UndoCount())
	}
	u, _ := s.PeekUndo()
	if u.Records()[0].New() != 5 {
		t.Error("newest unit should be kept")
	}

	s.SetMaxEntries(1)
	if s.UndoCount() != 1 {
		t.Errorf("UndoCount after shrink = %d, want 1", s.UndoCount())
	}
	s.SetMaxEntries(-1)
	if s.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want default", s.MaxEntries())
	}
}

func TestStackUndoApplicationFailed(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	a, b := newWidget("a"), newWidget("b")
	list := newWidgetList(a)
	reg.RegisterCollection(list)

	list.Add(b) // recorded: add b at 1
	reg.UnregisterCollection(list)
	_ = list.RemoveAt(1) // untracked
	list.Add(newWidget("z"))

	err := s.Undo()
	if !errors.Is(err, ErrUndoApplicationFailed) {
		t.Fatalf("Undo error = %v, want ErrUndoApplicationFailed", err)
	}
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) || applyErr.Op != "undo" || applyErr.Record == nil {
		t.Errorf("expected *ApplyError, got %T", err)
	}

	// The unit is consumed, not re-pushed.
	if s.CanUndo() || s.CanRedo() {
		t.Errorf("unit should be consumed: undo=%d redo=%d", s.UndoCount(), s.RedoCount())
	}
}

func TestStackTransaction(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	err := s.Transaction("ok", func() error {
		return w.SetProperty("Name", "b")
	})
	if err != nil {
		t.Fatalf("Transaction: %v", err)
	}
	if s.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", s.UndoCount())
	}

	boom := errors.New("boom")
	err = s.Transaction("fails", func() error {
		_ = w.SetProperty("Name", "c")
		_ = w.SetProperty("Count", 3)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}
	if w.name != "b" || w.count != 0 {
		t.Errorf("failed transaction should roll back: name=%q count=%d", w.name, w.count)
	}
	if s.UndoCount() != 1 || s.IsBatching() {
		t.Errorf("failed transaction left state: undo=%d batching=%v", s.UndoCount(), s.IsBatching())
	}
}

func TestStackNestedTransactionRollback(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	s.BeginBatch("outer")
	_ = w.SetProperty("Name", "b")
	_ = s.Transaction("inner", func() error {
		_ = w.SetProperty("Count", 9)
		return errors.New("nope")
	})
	if s.BatchDepth() != 1 {
		t.Fatalf("BatchDepth = %d, want 1", s.BatchDepth())
	}
	_ = s.EndBatch()

	if w.count != 0 {
		t.Errorf("inner transaction should roll back count, got %d", w.count)
	}
	u, _ := s.PeekUndo()
	if u.Len() != 1 {
		t.Errorf("unit should hold only the outer change, got %d", u.Len())
	}
}

func TestStackTransactionPanicRollsBack(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v, want boom", r)
			}
		}()
		_ = s.Transaction("panics", func() error {
			_ = w.SetProperty("Name", "b")
			panic("boom")
		})
	}()

	if s.IsBatching() {
		t.Error("panicking transaction left the batch open")
	}
	if w.name != "a" || s.UndoCount() != 0 {
		t.Errorf("got name=%q undo=%d, want rollback", w.name, s.UndoCount())
	}

	_ = w.SetProperty("Name", "c")
	if err := s.Undo(); err != nil || w.name != "a" {
		t.Errorf("Undo after panic: name=%q err=%v", w.name, err)
	}
}

func TestBatchScopeEndIdempotent(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")

	scope := s.BatchScope("scope")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	scope.End()
	scope.End()

	if s.IsBatching() {
		t.Error("scope should be closed")
	}
	if s.UndoCount() != 1 {
		t.Errorf("UndoCount = %d, want 1", s.UndoCount())
	}
}

func TestStackCheckpoint(t *testing.T) {
	s := NewStack(10)
	reg := NewRegistry(s)
	w := newWidget("a")
	reg.RegisterObject(w)

	_ = w.SetProperty("Name", "b")
	cp := s.Checkpoint()
	_ = w.SetProperty("Name", "c")
	_ = w.SetProperty("Name", "d")

	if err := s.UndoToCheckpoint(cp); err != nil {
		t.Fatalf("UndoToCheckpoint: %v", err)
	}
	if w.name != "b" {
		t.Errorf("got %q, want b", w.name)
	}

	top := Checkpoint{undoDepth: 3}
	if err := s.RedoToCheckpoint(top); err != nil {
		t.Fatalf("RedoToCheckpoint: %v", err)
	}
	if w.name != "d" {
		t.Errorf("got %q, want d", w.name)
	}
}

func TestStackInfo(t *testing.T) {
	s := NewStack(10)
	w := newWidget("a")
	s.Record(PropertyChanged(w, "Name", "a", "b"))
	s.BeginBatch("Rename twice")
	s.Record(PropertyChanged(w, "Name", "b", "c"))
	s.Record(PropertyChanged(w, "Name", "c", "d"))
	_ = s.EndBatch()

	info := s.UndoInfo()
	if len(info) != 2 {
		t.Fatalf("len(UndoInfo) = %d, want 2", len(info))
	}
	if info[0].Description != "Change Name" || info[1].Description != "Rename twice" {
		t.Errorf("descriptions: %q, %q", info[0].Description, info[1].Description)
	}
	if info[1].Records != 2 {
		t.Errorf("Records = %d, want 2", info[1].Records)
	}

	s.Clear()
	if s.UndoCount() != 0 || len(s.RedoInfo()) != 0 {
		t.Error("Clear should empty history")
	}
}
