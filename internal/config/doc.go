// Package config loads memento's settings.
//
// Settings come from built-in defaults, an optional TOML or YAML file and
// MEMENTO_ environment variables, in that order of precedence. A Watcher
// reloads them when the file changes.
//
//	cfg, err := config.Load(config.Options{Path: "memento.toml"})
//	if err != nil {
//	    return err
//	}
//	svc := memento.NewService(memento.WithMaxEntries(cfg.History.MaxEntries))
package config
