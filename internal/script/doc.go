// Package script drives the people example from Lua.
//
// A Runtime owns a sandboxed gopher-lua state and exposes three modules:
//
//	people   list, add, edit and remove persons through the main window
//	memento  undo, redo, batches, checkpoints and history inspection
//	dialogs  queue answers for the confirmation and editor dialogs
//
// Dialogs are answered from queued replies, falling back to configured
// defaults, so scripts run unattended.
package script
