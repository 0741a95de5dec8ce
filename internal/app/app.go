package app

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/memento/internal/config"
	"github.com/dshills/memento/internal/memento"
	"github.com/dshills/memento/internal/observable"
	"github.com/dshills/memento/internal/script"
	"github.com/dshills/memento/internal/viewmodel"
)

// Application owns every component of the people example.
//
// The memento service, the view-models and the Lua state are not
// goroutine-safe; they are only touched from the goroutine running Run,
// or by the caller before Run starts.
type Application struct {
	opts   Options
	cfg    config.Config
	logger *Logger

	memento *memento.Service
	dialogs *script.Dialogs
	window  *viewmodel.MainWindow
	runtime *script.Runtime
	watcher *config.Watcher

	availability *observable.Subscription
	afterReload  func()

	running   atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is a TOML or YAML config file. Optional.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Output receives script output and dialog transcripts. Defaults to os.Stdout.
	Output io.Writer

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads ConfigPath when it changes.
	Watch bool
}

// New loads configuration and builds all components.
func New(opts Options) (*Application, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(config.Options{Path: app.opts.ConfigPath})
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	app.cfg = cfg

	// 2. Logger
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Output: app.opts.LogOutput,
		Prefix: "memento",
	})

	// 3. Memento service
	app.memento = memento.NewService(
		memento.WithLogger(app.logger.WithComponent("memento")),
		memento.WithMaxEntries(cfg.History.MaxEntries),
	)
	log := app.logger.WithComponent("history")
	app.availability = app.memento.OnAvailabilityChanged(func(a memento.Availability) {
		log.Debug("availability changed: undo=%t redo=%t", a.CanUndo, a.CanRedo)
	})

	// 4. View-models
	app.dialogs = script.NewDialogs(cfg.Dialogs, app.opts.Output)
	app.window = viewmodel.NewMainWindow(app.dialogs, app.dialogs, app.memento)

	// 5. Lua runtime
	app.runtime = script.NewRuntime(app.window, app.memento, app.dialogs, app.opts.Output)

	// 6. Config watcher, non-fatal
	if app.opts.Watch && app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(config.Options{Path: app.opts.ConfigPath})
		if err != nil {
			app.logger.WithComponent("config").Warn("live reload disabled: %v", err)
		} else {
			app.watcher = w
		}
	}

	app.logger.Info("started with %d people, max %d history entries",
		app.window.People().Len(), cfg.History.MaxEntries)
	return nil
}

// Config returns the configuration in effect.
func (app *Application) Config() config.Config { return app.cfg }

// Logger returns the application logger.
func (app *Application) Logger() *Logger { return app.logger }

// Memento returns the memento service.
func (app *Application) Memento() *memento.Service { return app.memento }

// Window returns the main window view-model.
func (app *Application) Window() *viewmodel.MainWindow { return app.window }

// Runtime returns the Lua runtime.
func (app *Application) Runtime() *script.Runtime { return app.runtime }

// RunScript executes a Lua file.
func (app *Application) RunScript(ctx context.Context, path string) error {
	if app.closed() {
		return ErrClosed
	}
	if err := app.runtime.ExecFile(ctx, path); err != nil {
		return NewOperationError("run", path, err)
	}
	return nil
}

// ApplyConfig applies reloadable settings: history size, log level and
// dialog defaults.
// A log level given in Options keeps precedence.
func (app *Application) ApplyConfig(cfg config.Config) {
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
	app.cfg = cfg
	app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	app.memento.SetMaxEntries(cfg.History.MaxEntries)
	app.dialogs.Configure(cfg.Dialogs)
	app.logger.WithComponent("config").Info("reloaded: max_entries=%d level=%s confirm=%s",
		cfg.History.MaxEntries, cfg.Logging.Level, cfg.Dialogs.Confirm)
	if app.afterReload != nil {
		app.afterReload()
	}
}

// Shutdown stops Run and releases all components. Recorded history is
// discarded. Safe to call more than once.
func (app *Application) Shutdown() error {
	var err error
	app.closeOnce.Do(func() {
		close(app.done)
		if app.watcher != nil {
			err = app.watcher.Close()
		}
		app.availability.Unsubscribe()
		app.window.Close()
		if cerr := app.runtime.Close(); cerr != nil && err == nil {
			err = cerr
		}
		app.memento.Close()
		app.logger.Debug("shut down")
	})
	return err
}

func (app *Application) closed() bool {
	select {
	case <-app.done:
		return true
	default:
		return false
	}
}
