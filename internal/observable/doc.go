// Package observable provides the change-notification contract that the
// memento engine tracks.
//
// Entities declare their properties with a static Schema (field name to
// accessor pair) and embed Entity to get property-changed notifications:
//
//	var personSchema = observable.NewSchema("Person",
//	    observable.Prop("FirstName", func(p *Person) *string { return &p.firstName }),
//	)
//
//	type Person struct {
//	    observable.Entity[Person]
//	    firstName string
//	}
//
// Collections are held in a List, which raises structural change
// notifications for adds, removes and replacements.
//
// All types in this package are meant to be used from the single goroutine
// that owns the UI state. They do no internal locking.
package observable
