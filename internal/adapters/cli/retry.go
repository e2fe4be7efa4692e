package cli

import (
	"github.com/spf13/cobra"

	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func newRetryCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <process-id>",
		Short: "Move an ERROR process with a non-empty manifest back to PROVISIONING",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := deps.Runner.Run(cmd.Context(), transferapp.RetryProvisioningCommand{
				ProcessID: args[0],
			})
			if err != nil {
				return err
			}
			if process, ok := result.(*transfer.Process); ok {
				printProcess(process)
			}
			return nil
		},
	}
}
