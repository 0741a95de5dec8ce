package commands

import (
	_ "embed"

	"github.com/spf13/cobra"
)

//go:embed demo.lua
var demoScript string

func demoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add, edit, remove and undo people in a scripted walkthrough",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			return application.Runtime().Exec(cmd.Context(), demoScript)
		},
	}
}
