package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/transferproc/internal/application/command"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// Deps bundles the collaborators transferctl's subcommands need. It talks
// to the store and command runner directly rather than through a running
// daemon's RPC surface — the operator CLI is a reference surface, not a
// protocol.
type Deps struct {
	Store   transfer.Store
	Runner  command.Runner
	Clock   shared.Clock
}

// NewRootCommand assembles the transferctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "transferctl",
		Short: "Operate a running transfer process manager",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.AddCommand(
		newListCommand(deps),
		newShowCommand(deps),
		newCancelCommand(deps),
		newRetryCommand(deps),
	)

	return root
}

func printProcess(p *transfer.Process) {
	fmt.Printf("id:       %s\n", p.ID)
	fmt.Printf("type:     %s\n", p.Type)
	fmt.Printf("state:    %s\n", p.State)
	if p.ErrorDetail != "" {
		fmt.Printf("error:    %s\n", p.ErrorDetail)
	}
	fmt.Printf("transfer: %s\n", p.DataRequest.ID)
	fmt.Printf("manifest: %d definitions\n", len(p.ResourceManifest.Definitions))
	fmt.Printf("resources: %d provisioned\n", len(p.ProvisionedResourceSet.Resources))
	fmt.Printf("updated:  %s\n", p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"))
}
