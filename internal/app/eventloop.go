package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/dshills/memento/internal/config"
)

// Run executes Lua lines from lines until the channel closes, a line reads
// "quit" or "exit", ctx is done, or Shutdown is called. Script errors are
// reported on the output and do not stop the loop. Config reloads are
// applied between lines.
func (app *Application) Run(ctx context.Context, lines <-chan string) error {
	if app.closed() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	var updates <-chan config.Config
	var watchErrs <-chan error
	if app.watcher != nil {
		updates = app.watcher.Updates()
		watchErrs = app.watcher.Errors()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-app.done:
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := app.handleLine(ctx, line); quit {
				return nil
			}

		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			app.ApplyConfig(cfg)

		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			app.logger.WithComponent("config").Warn("%v", err)
		}
	}
}

// handleLine runs one line and reports whether the loop should stop.
func (app *Application) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "quit", "exit":
		return true
	}

	if err := app.execLine(ctx, line); err != nil {
		fmt.Fprintf(app.opts.Output, "error: %v\n", err)
		app.logger.WithComponent("script").Debug("line %q failed: %v", line, err)
	}
	return false
}

// execLine runs line, converting a panic into an error.
func (app *Application) execLine(ctx context.Context, line string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			app.logger.Error("recovered: %v", r)
		}
	}()
	return app.runtime.Exec(ctx, line)
}

// ReadLines feeds r line by line into the returned channel until EOF or
// ctx is done. Callers that stop receiving before EOF must cancel ctx to
// release the reader goroutine; a goroutine blocked inside a Read on r is
// only released when that Read returns.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
