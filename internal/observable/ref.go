package observable

import "weak"

// Ref is a comparable handle that does not keep its target reachable.
// Refs made from the same pointer compare equal.
type Ref interface {
	// Target returns the referenced value, or nil once it was collected.
	Target() any
}

// Referable is implemented by targets that can hand out a Ref to
// themselves.
type Referable interface {
	WeakRef() Ref
}

type weakRef[T any] struct {
	p weak.Pointer[T]
}

func (r weakRef[T]) Target() any {
	if v := r.p.Value(); v != nil {
		return v
	}
	return nil
}

// RefOf returns a Ref to p.
func RefOf[T any](p *T) Ref {
	return weakRef[T]{p: weak.Make(p)}
}
