// Package commands defines the memento command tree.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/memento/internal/app"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	configPath string
	logLevel   string
	watch      bool
}

// Execute runs the command tree.
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCmd(info).ExecuteContext(ctx)
}

// NewRootCmd builds the root command and its subcommands.
func NewRootCmd(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "memento",
		Short:         "Undo/redo engine demo driven by Lua",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.watch, "watch", false, "reload the config file when it changes")

	root.AddCommand(runCmd(opts), replCmd(opts), demoCmd(opts), versionCmd(info))
	return root
}

// newApp builds the application for a subcommand.
func newApp(cmd *cobra.Command, opts *rootOptions) (*app.Application, error) {
	return app.New(app.Options{
		ConfigPath: opts.configPath,
		LogLevel:   opts.logLevel,
		Watch:      opts.watch,
		Output:     cmd.OutOrStdout(),
		LogOutput:  cmd.ErrOrStderr(),
	})
}
