package observable

// PropertyChange describes one property mutation.
type PropertyChange struct {
	// Source is the entity that changed.
	Source any

	// Property is the schema field name.
	Property string

	// Old and New are the values before and after the change.
	Old any
	New any
}

// Object is anything whose property changes can be tracked.
type Object interface {
	// OnPropertyChanged registers a handler for property changes.
	OnPropertyChanged(fn Handler[PropertyChange]) *Subscription

	// Property reads a property by name.
	Property(name string) (any, error)

	// SetProperty writes a property by name, raising a notification if the
	// value changed.
	SetProperty(name string, value any) error
}

// Entity implements Object for a struct type T. Embed it and call Bind
// from the constructor.
type Entity[T any] struct {
	self    *T
	schema  *Schema[T]
	changed Signal[PropertyChange]
}

// Bind attaches the entity to its owning struct and schema.
func (e *Entity[T]) Bind(self *T, schema *Schema[T]) {
	e.self = self
	e.schema = schema
}

// Schema returns the bound schema, or nil.
func (e *Entity[T]) Schema() *Schema[T] {
	return e.schema
}

// WeakRef implements Referable. It refers to the bound struct; an unbound
// entity yields a Ref whose Target is nil.
func (e *Entity[T]) WeakRef() Ref {
	return RefOf(e.self)
}

// OnPropertyChanged implements Object.
func (e *Entity[T]) OnPropertyChanged(fn Handler[PropertyChange]) *Subscription {
	return e.changed.Subscribe(fn)
}

// Property implements Object.
func (e *Entity[T]) Property(name string) (any, error) {
	if e.schema == nil {
		return nil, ErrUnboundEntity
	}
	return e.schema.Get(e.self, name)
}

// SetProperty implements Object. Setting a property to its current value
// raises no notification.
func (e *Entity[T]) SetProperty(name string, value any) error {
	if e.schema == nil {
		return ErrUnboundEntity
	}
	old, changed, err := e.schema.Set(e.self, name, value)
	if err != nil || !changed {
		return err
	}
	current, _ := e.schema.Get(e.self, name)
	e.changed.Emit(PropertyChange{
		Source:   e.self,
		Property: name,
		Old:      old,
		New:      current,
	})
	return nil
}

// Observers returns the number of property-change handlers.
func (e *Entity[T]) Observers() int {
	return e.changed.Len()
}
