package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/memento/internal/config/loader"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MEMENTO_"

// Setting paths.
const (
	PathMaxEntries = "history.max_entries"
	PathLogLevel   = "logging.level"
	PathConfirm    = "dialogs.confirm"
	PathAutoAccept = "dialogs.auto_accept"
)

// Config holds every memento setting.
type Config struct {
	History HistoryConfig
	Logging LoggingConfig
	Dialogs DialogsConfig
}

// HistoryConfig configures the undo stack.
type HistoryConfig struct {
	// MaxEntries caps the number of undo units kept.
	MaxEntries int
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string
}

// DialogsConfig configures scripted dialog answers.
type DialogsConfig struct {
	// Confirm answers confirmation prompts with no queued reply: yes or no.
	Confirm string
	// AutoAccept saves editor dialogs with no queued form.
	AutoAccept bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxEntries: 1000},
		Logging: LoggingConfig{Level: "info"},
		Dialogs: DialogsConfig{Confirm: "yes", AutoAccept: true},
	}
}

func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"history": map[string]any{"max_entries": int64(d.History.MaxEntries)},
		"logging": map[string]any{"level": d.Logging.Level},
		"dialogs": map[string]any{"confirm": d.Dialogs.Confirm, "auto_accept": d.Dialogs.AutoAccept},
	}
}

// Options controls Load.
type Options struct {
	// Path is the config file. Empty means defaults and environment only.
	Path string
	// FS reads the file. Defaults to the OS file system.
	FS loader.FileSystem
	// Env overrides the environment loader, mainly for tests.
	Env loader.Loader
}

// Load merges defaults, the config file and the environment, then
// validates the result. A missing file is not an error.
func Load(opts Options) (Config, error) {
	merged := defaultMap()

	if opts.Path != "" {
		fl, err := loader.ForPath(opts.FS, opts.Path)
		if err != nil {
			return Config{}, err
		}
		file, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	env := opts.Env
	if env == nil {
		env = loader.NewEnvLoader(EnvPrefix)
	}
	vars, err := env.Load()
	if err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}
	merged = loader.DeepMerge(merged, vars)

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting and joins all failures.
func (c Config) Validate() error {
	var errs []error
	if c.History.MaxEntries <= 0 {
		errs = append(errs, &ValidationError{Path: PathMaxEntries, Value: c.History.MaxEntries, Reason: "must be positive"})
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{Path: PathLogLevel, Value: c.Logging.Level, Reason: "must be debug, info, warn or error"})
	}
	switch c.Dialogs.Confirm {
	case "yes", "no":
	default:
		errs = append(errs, &ValidationError{Path: PathConfirm, Value: c.Dialogs.Confirm, Reason: "must be yes or no"})
	}
	return errors.Join(errs...)
}

func decode(m map[string]any) (Config, error) {
	var cfg Config
	var err error
	if cfg.History.MaxEntries, err = intAt(m, PathMaxEntries); err != nil {
		return Config{}, err
	}
	if cfg.Logging.Level, err = stringAt(m, PathLogLevel); err != nil {
		return Config{}, err
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Dialogs.Confirm, err = stringAt(m, PathConfirm); err != nil {
		return Config{}, err
	}
	cfg.Dialogs.Confirm = strings.ToLower(cfg.Dialogs.Confirm)
	if cfg.Dialogs.AutoAccept, err = boolAt(m, PathAutoAccept); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func typeError(path string, v any, want string) error {
	return &ValidationError{Path: path, Value: v, Reason: fmt.Sprintf("expected %s, got %T", want, v)}
}

func intAt(m map[string]any, path string) (int, error) {
	v, _ := loader.Lookup(m, path)
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, &ValidationError{Path: path, Value: n, Reason: "out of range"}
		}
		return int(n), nil
	case uint64:
		if n > math.MaxInt32 {
			return 0, &ValidationError{Path: path, Value: n, Reason: "out of range"}
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, typeError(path, v, "integer")
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, typeError(path, v, "integer")
		}
		return i, nil
	default:
		return 0, typeError(path, v, "integer")
	}
}

func stringAt(m map[string]any, path string) (string, error) {
	v, _ := loader.Lookup(m, path)
	switch s := v.(type) {
	case string:
		return s, nil
	case bool:
		// confirm = true reads as yes.
		if s {
			return "yes", nil
		}
		return "no", nil
	default:
		return "", typeError(path, v, "string")
	}
}

func boolAt(m map[string]any, path string) (bool, error) {
	v, _ := loader.Lookup(m, path)
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, typeError(path, v, "bool")
		}
		return parsed, nil
	default:
		return false, typeError(path, v, "bool")
	}
}
