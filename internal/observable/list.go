package observable

import (
	"fmt"
)

// Action is the kind of structural collection change.
type Action int

const (
	// ActionAdd indicates items were inserted.
	ActionAdd Action = iota

	// ActionRemove indicates items were removed.
	ActionRemove

	// ActionReplace indicates one item was replaced by another.
	ActionReplace
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// CollectionChange describes a structural change to a collection.
//
// For ActionAdd, NewItems were inserted starting at Index.
// For ActionRemove, OldItems were removed starting at Index.
// For ActionReplace, OldItems[0] at Index was replaced by NewItems[0].
type CollectionChange struct {
	Source   any
	Action   Action
	Index    int
	OldItems []any
	NewItems []any
}

// Collection is anything whose structural changes can be tracked.
type Collection interface {
	// OnCollectionChanged registers a handler for structural changes.
	OnCollectionChanged(fn Handler[CollectionChange]) *Subscription

	// Len returns the number of items.
	Len() int

	// ItemAt returns the item at index i.
	ItemAt(i int) (any, error)

	// Items returns a copy of the items.
	Items() []any

	// InsertItem inserts an item at index i (0 <= i <= Len).
	InsertItem(i int, item any) error

	// RemoveItem removes the item at index i.
	RemoveItem(i int) error
}

// List is an observable ordered collection.
type List[T comparable] struct {
	items   []T
	changed Signal[CollectionChange]
}

// NewList creates a list holding the given items.
func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{items: make([]T, len(items))}
	copy(l.items, items)
	return l
}

// WeakRef implements Referable.
func (l *List[T]) WeakRef() Ref {
	return RefOf(l)
}

// OnCollectionChanged implements Collection.
func (l *List[T]) OnCollectionChanged(fn Handler[CollectionChange]) *Subscription {
	return l.changed.Subscribe(fn)
}

// Len implements Collection.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at index i and whether i was valid.
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Values returns a copy of the items.
func (l *List[T]) Values() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// IndexOf returns the index of the first occurrence of item, or -1.
func (l *List[T]) IndexOf(item T) int {
	for i, v := range l.items {
		if v == item {
			return i
		}
	}
	return -1
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add appends items to the end of the list.
func (l *List[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	index := len(l.items)
	l.items = append(l.items, items...)
	l.emit(ActionAdd, index, nil, toAny(items))
}

// Insert inserts item at index i.
func (l *List[T]) Insert(i int, item T) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("%w: insert at %d, len %d", ErrIndexOutOfRange, i, len(l.items))
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = item
	l.emit(ActionAdd, i, nil, []any{item})
	return nil
}

// RemoveAt removes the item at index i.
func (l *List[T]) RemoveAt(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: remove at %d, len %d", ErrIndexOutOfRange, i, len(l.items))
	}
	old := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.emit(ActionRemove, i, []any{old}, nil)
	return nil
}

// Remove removes the first occurrence of item and reports whether it was found.
func (l *List[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	_ = l.RemoveAt(i)
	return true
}

// Set replaces the item at index i.
func (l *List[T]) Set(i int, item T) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: set at %d, len %d", ErrIndexOutOfRange, i, len(l.items))
	}
	old := l.items[i]
	if old == item {
		return nil
	}
	l.items[i] = item
	l.emit(ActionReplace, i, []any{old}, []any{item})
	return nil
}

// Clear removes every item.
func (l *List[T]) Clear() {
	if len(l.items) == 0 {
		return
	}
	old := toAny(l.items)
	l.items = nil
	l.emit(ActionRemove, 0, old, nil)
}

// ItemAt implements Collection.
func (l *List[T]) ItemAt(i int) (any, error) {
	v, ok := l.At(i)
	if !ok {
		return nil, fmt.Errorf("%w: item at %d, len %d", ErrIndexOutOfRange, i, len(l.items))
	}
	return v, nil
}

// Items implements Collection.
func (l *List[T]) Items() []any {
	return toAny(l.items)
}

// InsertItem implements Collection.
func (l *List[T]) InsertItem(i int, item any) error {
	v, ok := item.(T)
	if !ok {
		return fmt.Errorf("%w: list does not accept %T", ErrTypeMismatch, item)
	}
	return l.Insert(i, v)
}

// RemoveItem implements Collection.
func (l *List[T]) RemoveItem(i int) error {
	return l.RemoveAt(i)
}

// Observers returns the number of collection-change handlers.
func (l *List[T]) Observers() int {
	return l.changed.Len()
}

func (l *List[T]) emit(action Action, index int, oldItems, newItems []any) {
	l.changed.Emit(CollectionChange{
		Source:   l,
		Action:   action,
		Index:    index,
		OldItems: oldItems,
		NewItems: newItems,
	})
}

func toAny[T any](items []T) []any {
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}
