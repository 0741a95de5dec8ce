package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dshills/memento/internal/app"
)

func replCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Execute Lua lines from stdin until EOF or quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			lines := app.ReadLines(ctx, cmd.InOrStdin())
			return application.Run(ctx, lines)
		},
	}
}
