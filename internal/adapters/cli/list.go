package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

var allStates = append(append([]transfer.State{}, transfer.ActiveStates...), transfer.StateCompleted, transfer.StateEnded, transfer.StateError)

func newListCommand(deps Deps) *cobra.Command {
	var stateName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transfer processes, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			states := allStates
			if stateName != "" {
				state, ok := parseState(stateName)
				if !ok {
					return fmt.Errorf("unknown state %q", stateName)
				}
				states = []transfer.State{state}
			}

			for _, state := range states {
				processes, err := deps.Store.NextForState(ctx, state, 1000)
				if err != nil {
					return err
				}
				for _, p := range processes {
					fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.Type, p.State, p.DataRequest.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stateName, "state", "", "filter by state name (e.g. ERROR)")
	return cmd
}

func parseState(name string) (transfer.State, bool) {
	for _, s := range allStates {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
