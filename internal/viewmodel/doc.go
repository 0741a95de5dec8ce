// Package viewmodel contains the example view-models: a main window that
// edits a list of people with undo/redo, and the person editor dialog with
// deferred validation.
package viewmodel
