package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func newCancelCommand(deps Deps) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <process-id>",
		Short: "Force a non-terminal process into ERROR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := deps.Runner.Run(cmd.Context(), transferapp.CancelTransferCommand{
				ProcessID: args[0],
				Reason:    reason,
			})
			if err != nil {
				return err
			}
			if process, ok := result.(*transfer.Process); ok {
				printProcess(process)
				return nil
			}
			fmt.Println("process already terminal, no action taken")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in errorDetail")
	return cmd
}
