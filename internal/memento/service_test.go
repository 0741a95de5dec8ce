package memento

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	l.lines = append(l.lines, "DEBUG "+fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(msg, args...))
}

func TestServiceAddUndoRedoScenario(t *testing.T) {
	svc := NewService()
	people := newWidgetList(newWidget("Geert"), newWidget("Fred"))
	svc.RegisterCollection(people)

	people.Add(newWidget("Alice"))

	if svc.UndoCount() != 1 || !svc.CanUndo() || svc.CanRedo() {
		t.Fatalf("after add: undo=%d canUndo=%v canRedo=%v", svc.UndoCount(), svc.CanUndo(), svc.CanRedo())
	}

	if err := svc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := names(people); !equalStrings(got, []string{"Geert", "Fred"}) {
		t.Errorf("after undo got %v", got)
	}
	if svc.UndoCount() != 0 || svc.RedoCount() != 1 || !svc.CanRedo() {
		t.Errorf("after undo: undo=%d redo=%d", svc.UndoCount(), svc.RedoCount())
	}

	if err := svc.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := names(people); !equalStrings(got, []string{"Geert", "Fred", "Alice"}) {
		t.Errorf("after redo got %v", got)
	}
	if svc.CanRedo() {
		t.Error("canRedo should be false after redo")
	}
}

func TestServiceAvailabilityNotifications(t *testing.T) {
	svc := NewService()
	w := newWidget("a")
	svc.RegisterObject(w)

	var got []Availability
	sub := svc.OnAvailabilityChanged(func(a Availability) {
		got = append(got, a)
	})
	defer sub.Unsubscribe()

	_ = w.SetProperty("Name", "b") // undo on
	_ = w.SetProperty("Name", "c") // no flip
	_ = svc.Undo()                 // redo on
	_ = svc.Undo()                 // undo off
	_ = svc.Redo()                 // undo on
	_ = w.SetProperty("Count", 1)  // redo off

	want := []Availability{
		{CanUndo: true},
		{CanUndo: true, CanRedo: true},
		{CanRedo: true},
		{CanUndo: true, CanRedo: true},
		{CanUndo: true},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d notifications %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestServiceBatchAtomicity(t *testing.T) {
	svc := NewService()
	w := newWidget("a")
	svc.RegisterObject(w)

	svc.BeginBatch("both")
	_ = w.SetProperty("Name", "m1")
	_ = w.SetProperty("Count", 2)
	if err := svc.EndBatch(); err != nil {
		t.Fatalf("EndBatch: %v", err)
	}

	if err := svc.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if w.name != "a" || w.count != 0 {
		t.Errorf("undo not atomic: %q %d", w.name, w.count)
	}
	if err := svc.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if w.name != "m1" || w.count != 2 {
		t.Errorf("redo not atomic: %q %d", w.name, w.count)
	}
}

func TestServiceErrors(t *testing.T) {
	log := &recordingLogger{}
	svc := NewService(WithLogger(log), WithMaxEntries(5))

	if svc.MaxEntries() != 5 {
		t.Errorf("MaxEntries = %d, want 5", svc.MaxEntries())
	}
	if !errors.Is(svc.Undo(), ErrNothingToUndo) {
		t.Error("expected ErrNothingToUndo")
	}
	if !errors.Is(svc.Redo(), ErrNothingToRedo) {
		t.Error("expected ErrNothingToRedo")
	}
	if !errors.Is(svc.EndBatch(), ErrInvalidBatchState) {
		t.Error("expected ErrInvalidBatchState")
	}

	var warned bool
	for _, line := range log.lines {
		if strings.HasPrefix(line, "WARN end batch") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning for unbalanced EndBatch, got %v", log.lines)
	}
}

func TestServiceUnregisterUnknownIsNoop(t *testing.T) {
	svc := NewService()
	svc.UnregisterObject(newWidget("x"))
	svc.UnregisterCollection(newWidgetList())
	if svc.IsRegistered(newWidget("y")) {
		t.Error("unknown target reported as registered")
	}
}

func TestServiceSubscriptionsSurviveFailedUndo(t *testing.T) {
	svc := NewService()
	a := newWidget("a")
	list := newWidgetList(a)
	svc.RegisterCollection(list)

	b := newWidget("b")
	list.Add(b)

	// Break the recorded add by swapping the item behind the service's back.
	svc.UnregisterCollection(list)
	_ = list.Set(1, newWidget("imposter"))
	svc.RegisterCollection(list)

	if err := svc.Undo(); !errors.Is(err, ErrUndoApplicationFailed) {
		t.Fatalf("Undo = %v, want ErrUndoApplicationFailed", err)
	}

	_ = a.SetProperty("Name", "still tracked")
	if !svc.CanUndo() {
		t.Error("registrations should survive a failed undo")
	}
}

func TestServiceClose(t *testing.T) {
	svc := NewService()
	w := newWidget("a")
	svc.RegisterObject(w)
	_ = w.SetProperty("Name", "b")

	svc.Close()
	if svc.CanUndo() || svc.IsRegistered(w) || w.Observers() != 0 {
		t.Error("Close should clear history and registrations")
	}
}

func TestServiceTransactionAndScope(t *testing.T) {
	svc := NewService()
	w := newWidget("a")
	svc.RegisterObject(w)

	func() {
		defer svc.BatchScope("scoped").End()
		_ = w.SetProperty("Name", "b")
		_ = w.SetProperty("Count", 1)
	}()
	if svc.UndoCount() != 1 || svc.IsBatching() {
		t.Fatalf("scope: undo=%d batching=%v", svc.UndoCount(), svc.IsBatching())
	}

	err := svc.Transaction("tx", func() error {
		_ = w.SetProperty("Name", "c")
		return errors.New("abort")
	})
	if err == nil || w.name != "b" {
		t.Errorf("transaction should roll back, name=%q err=%v", w.name, err)
	}

	cp := svc.Checkpoint()
	_ = w.SetProperty("Name", "z")
	if err := svc.UndoToCheckpoint(cp); err != nil || w.name != "b" {
		t.Errorf("UndoToCheckpoint: name=%q err=%v", w.name, err)
	}
	if err := svc.RedoToCheckpoint(Checkpoint{undoDepth: 2}); err != nil || w.name != "z" {
		t.Errorf("RedoToCheckpoint: name=%q err=%v", w.name, err)
	}
}
