package cli

import (
	"github.com/spf13/cobra"
)

func newShowCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <process-id>",
		Short: "Show a transfer process's full detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			process, err := deps.Store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printProcess(process)
			return nil
		},
	}
}
