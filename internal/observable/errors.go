package observable

import "errors"

// Errors returned by entities and lists.
var (
	// ErrUnknownProperty is returned when a property name is not in the schema.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrTypeMismatch is returned when a value has the wrong type for a property or list.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrIndexOutOfRange is returned when a list index is invalid.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnboundEntity is returned when an Entity is used before Bind.
	ErrUnboundEntity = errors.New("entity not bound to a schema")
)
