package observable

import (
	"fmt"
)

// Field is one declared property of an entity type: a name plus an
// accessor pair.
type Field[T any] struct {
	Name string

	get func(*T) any
	set func(*T, any) (changed bool, err error)
}

// Prop declares a property backed by a struct field. ref must return a
// pointer to the field inside the given entity.
//
// Setting a nil value stores the zero value of V.
func Prop[T any, V comparable](name string, ref func(*T) *V) Field[T] {
	return Field[T]{
		Name: name,
		get: func(t *T) any {
			return *ref(t)
		},
		set: func(t *T, v any) (bool, error) {
			var val V
			if v != nil {
				typed, ok := v.(V)
				if !ok {
					return false, fmt.Errorf("%w: property %s does not accept %T", ErrTypeMismatch, name, v)
				}
				val = typed
			}
			p := ref(t)
			if *p == val {
				return false, nil
			}
			*p = val
			return true, nil
		},
	}
}

// Schema is the compile-time declared property table of an entity type.
type Schema[T any] struct {
	name   string
	fields map[string]Field[T]
	order  []string
}

// NewSchema builds a schema. It panics on duplicate or empty field names,
// which are declaration errors.
func NewSchema[T any](name string, fields ...Field[T]) *Schema[T] {
	s := &Schema[T]{
		name:   name,
		fields: make(map[string]Field[T], len(fields)),
		order:  make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("observable: schema %s: empty field name", name))
		}
		if _, dup := s.fields[f.Name]; dup {
			panic(fmt.Sprintf("observable: schema %s: duplicate field %s", name, f.Name))
		}
		s.fields[f.Name] = f
		s.order = append(s.order, f.Name)
	}
	return s
}

// Name returns the entity type name.
func (s *Schema[T]) Name() string {
	return s.name
}

// Fields returns the property names in declaration order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether the schema declares the property.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Get reads a property from t.
func (s *Schema[T]) Get(t *T, name string) (any, error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, s.name, name)
	}
	return f.get(t), nil
}

// Set writes a property on t and returns the previous value and whether
// the value actually changed.
func (s *Schema[T]) Set(t *T, name string, value any) (old any, changed bool, err error) {
	f, ok := s.fields[name]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, s.name, name)
	}
	old = f.get(t)
	changed, err = f.set(t, value)
	return old, changed, err
}

// Snapshot returns all property values of t keyed by name.
func (s *Schema[T]) Snapshot(t *T) map[string]any {
	out := make(map[string]any, len(s.order))
	for _, name := range s.order {
		out[name] = s.fields[name].get(t)
	}
	return out
}
