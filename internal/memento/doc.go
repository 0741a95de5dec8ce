// Package memento provides undo/redo for tracked objects and collections.
//
// Mutations on registered targets are observed, turned into immutable
// change records and pushed onto a linear history. Key concepts:
//
// # Change Records
//
// A ChangeRecord describes one reversible mutation:
//   - A property change with its old and new value
//   - An item added to or removed from a collection at an index
//   - A batch boundary marker
//
// Records are never mutated after creation. They only move between the
// past and future sequences, or get discarded.
//
// # Stack
//
// The Stack holds the past (undo) and future (redo) sequences of units.
// A unit is one record, or a collapsed batch of records:
//
//	stack := NewStack(1000)
//	stack.Record(PropertyChanged(person, "FirstName", "Fred", "Frederik"))
//	stack.Undo()
//	stack.Redo()
//
// Recording a new change clears the future. There is no branching.
//
// # Batches
//
// Several mutations can be collapsed into one undo unit:
//
//	svc.BeginBatch("Edit person")
//	// ... multiple edits ...
//	svc.EndBatch()
//
// Batches nest. An empty batch pushes nothing.
//
// # Registry and Service
//
// The Registry subscribes to observable.Object and observable.Collection
// notifications and forwards them to the Stack. The Service is the facade
// that owns both and raises an availability notification whenever
// CanUndo or CanRedo flips.
//
// Everything here runs on the goroutine that owns the UI state. Nothing
// locks, and nothing suspends.
package memento
