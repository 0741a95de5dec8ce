package mvvm

import (
	"context"
	"errors"

	"github.com/dshills/memento/internal/observable"
)

// ErrCannotExecute is returned when Execute is called while CanExecute is false.
var ErrCannotExecute = errors.New("command cannot execute")

// ExecuteFunc performs a command.
type ExecuteFunc func(ctx context.Context) error

// CanExecuteFunc reports whether a command may run.
type CanExecuteFunc func() bool

// Command binds an action to a UI affordance.
type Command struct {
	name       string
	execute    ExecuteFunc
	canExecute CanExecuteFunc
	changed    observable.Signal[struct{}]
}

// NewCommand creates a command. canExecute may be nil, meaning always.
func NewCommand(name string, execute ExecuteFunc, canExecute CanExecuteFunc) *Command {
	return &Command{
		name:       name,
		execute:    execute,
		canExecute: canExecute,
	}
}

// NewSyncCommand adapts a plain function.
func NewSyncCommand(name string, fn func() error, canExecute CanExecuteFunc) *Command {
	return NewCommand(name, func(context.Context) error { return fn() }, canExecute)
}

// Name returns the command name.
func (c *Command) Name() string {
	return c.name
}

// CanExecute reports whether the command may run now.
func (c *Command) CanExecute() bool {
	if c.execute == nil {
		return false
	}
	return c.canExecute == nil || c.canExecute()
}

// Execute runs the command if it can execute.
func (c *Command) Execute(ctx context.Context) error {
	if !c.CanExecute() {
		return ErrCannotExecute
	}
	return c.execute(ctx)
}

// OnCanExecuteChanged registers a handler for can-execute changes.
func (c *Command) OnCanExecuteChanged(fn func()) *observable.Subscription {
	return c.changed.Subscribe(func(struct{}) { fn() })
}

// RaiseCanExecuteChanged tells bound views to re-query CanExecute.
func (c *Command) RaiseCanExecuteChanged() {
	c.changed.Emit(struct{}{})
}
