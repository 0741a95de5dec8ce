package memento

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dshills/memento/internal/observable"
)

// Kind identifies what a ChangeRecord describes.
type Kind uint8

const (
	// KindPropertyChanged is a property going from Old to New.
	KindPropertyChanged Kind = iota

	// KindItemAdded is Value inserted into a collection at Index.
	KindItemAdded

	// KindItemRemoved is Value removed from a collection at Index.
	KindItemRemoved

	// KindBatchBoundary marks the beginning or end of a batch.
	KindBatchBoundary
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPropertyChanged:
		return "property"
	case KindItemAdded:
		return "add"
	case KindItemRemoved:
		return "remove"
	case KindBatchBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Boundary tells which side of a batch a boundary record marks.
type Boundary uint8

const (
	BoundaryNone Boundary = iota
	BoundaryBegin
	BoundaryEnd
)

// String returns the boundary name.
func (b Boundary) String() string {
	switch b {
	case BoundaryBegin:
		return "begin"
	case BoundaryEnd:
		return "end"
	default:
		return "none"
	}
}

// Change is the input handed to Stack.Record. The stack turns it into an
// immutable ChangeRecord.
type Change struct {
	Kind     Kind
	Target   any
	Property string
	Old      any
	New      any
	Index    int
	Value    any
	Boundary Boundary
}

// PropertyChanged describes a property mutation on obj.
func PropertyChanged(obj observable.Object, property string, oldValue, newValue any) Change {
	return Change{
		Kind:     KindPropertyChanged,
		Target:   obj,
		Property: property,
		Old:      oldValue,
		New:      newValue,
	}
}

// ItemAdded describes value being inserted into coll at index.
func ItemAdded(coll observable.Collection, index int, value any) Change {
	return Change{
		Kind:   KindItemAdded,
		Target: coll,
		Index:  index,
		Value:  value,
	}
}

// ItemRemoved describes value being removed from coll at index.
func ItemRemoved(coll observable.Collection, index int, value any) Change {
	return Change{
		Kind:   KindItemRemoved,
		Target: coll,
		Index:  index,
		Value:  value,
	}
}

// ChangeRecord is one immutable, reversible mutation.
//
// The target stays reachable until the record leaves history.
type ChangeRecord struct {
	seq       uint64
	kind      Kind
	target    any
	property  string
	old       any
	new       any
	index     int
	value     any
	boundary  Boundary
	timestamp time.Time
}

func newRecord(seq uint64, c Change) *ChangeRecord {
	return &ChangeRecord{
		seq:       seq,
		kind:      c.Kind,
		target:    c.Target,
		property:  c.Property,
		old:       c.Old,
		new:       c.New,
		index:     c.Index,
		value:     c.Value,
		boundary:  c.Boundary,
		timestamp: time.Now(),
	}
}

// Sequence is the creation order number. It is for diagnostics only;
// replay order is stack order.
func (r *ChangeRecord) Sequence() uint64 { return r.seq }

// Kind returns what the record describes.
func (r *ChangeRecord) Kind() Kind { return r.kind }

// Target returns the mutated object or collection.
func (r *ChangeRecord) Target() any { return r.target }

// Property returns the property name of a property change.
func (r *ChangeRecord) Property() string { return r.property }

// Old returns the value before a property change.
func (r *ChangeRecord) Old() any { return r.old }

// New returns the value after a property change.
func (r *ChangeRecord) New() any { return r.new }

// Index returns the collection index of an add or remove.
func (r *ChangeRecord) Index() int { return r.index }

// Value returns the item of an add or remove.
func (r *ChangeRecord) Value() any { return r.value }

// Boundary returns the side of a batch boundary record.
func (r *ChangeRecord) Boundary() Boundary { return r.boundary }

// Timestamp returns when the record was created.
func (r *ChangeRecord) Timestamp() time.Time { return r.timestamp }

// IsBoundary reports whether the record is a batch marker.
func (r *ChangeRecord) IsBoundary() bool { return r.kind == KindBatchBoundary }

// String returns a short human-readable description.
func (r *ChangeRecord) String() string {
	switch r.kind {
	case KindPropertyChanged:
		return fmt.Sprintf("#%d set %s: %v -> %v", r.seq, r.property, r.old, r.new)
	case KindItemAdded:
		return fmt.Sprintf("#%d add [%d] %v", r.seq, r.index, r.value)
	case KindItemRemoved:
		return fmt.Sprintf("#%d remove [%d] %v", r.seq, r.index, r.value)
	case KindBatchBoundary:
		return fmt.Sprintf("#%d batch %s", r.seq, r.boundary)
	default:
		return fmt.Sprintf("#%d unknown", r.seq)
	}
}

// describe returns a description suitable for a history list.
func (r *ChangeRecord) describe() string {
	switch r.kind {
	case KindPropertyChanged:
		return fmt.Sprintf("Change %s", r.property)
	case KindItemAdded:
		return "Add item"
	case KindItemRemoved:
		return "Remove item"
	default:
		return r.kind.String()
	}
}

// apply writes the record to its live target: the forward mutation when
// forward is true, the inverse otherwise.
func (r *ChangeRecord) apply(forward bool) error {
	switch r.kind {
	case KindPropertyChanged:
		obj, ok := r.target.(observable.Object)
		if !ok {
			return fmt.Errorf("target %T is not an observable object", r.target)
		}
		if forward {
			return obj.SetProperty(r.property, r.new)
		}
		return obj.SetProperty(r.property, r.old)

	case KindItemAdded, KindItemRemoved:
		coll, ok := r.target.(observable.Collection)
		if !ok {
			return fmt.Errorf("target %T is not an observable collection", r.target)
		}
		insert := (r.kind == KindItemAdded) == forward
		if insert {
			return coll.InsertItem(r.index, r.value)
		}
		return removeExpected(coll, r.index, r.value)

	case KindBatchBoundary:
		return nil

	default:
		return fmt.Errorf("unknown record kind %d", r.kind)
	}
}

// removeExpected removes the item at index i after checking it is the one
// the record describes.
func removeExpected(coll observable.Collection, i int, want any) error {
	got, err := coll.ItemAt(i)
	if err != nil {
		return err
	}
	if !sameValue(got, want) {
		return fmt.Errorf("item at %d is %v, expected %v", i, got, want)
	}
	return coll.RemoveItem(i)
}

// sameValue compares with == and falls back to deep equality for
// uncomparable dynamic types.
func sameValue(a, b any) (equal bool) {
	defer func() {
		if recover() != nil {
			equal = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
