package commands

import (
	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.lua>...",
		Short: "Run Lua scripts against one shared history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			for _, path := range args {
				if err := application.RunScript(cmd.Context(), path); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
