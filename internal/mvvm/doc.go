// Package mvvm provides command binding and the collaborator interfaces
// view-models use to talk to the user: dialogs and confirmation prompts.
//
// Collaborators are asynchronous from the user's point of view, so their
// methods take a context. Any confirmation happens before a view-model
// mutates tracked state, never in the middle of an undo or redo.
package mvvm
