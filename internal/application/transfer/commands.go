package transfer

import (
	"context"
	"fmt"

	"github.com/andrescamacho/transferproc/internal/application/command"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// CancelTransferCommand forces a non-terminal process into ERROR. Issued
// by the operator CLI.
type CancelTransferCommand struct {
	ProcessID string
	Reason    string
}

// RetryProvisioningCommand clears errorDetail and moves an ERROR process
// with a non-empty manifest back to PROVISIONING, for operator-triggered
// recovery.
type RetryProvisioningCommand struct {
	ProcessID string
}

// RegisterCommands wires the two operator commands into runner. Both
// handlers re-fetch the process from store before mutating, matching the
// scheduler's own race policy.
func RegisterCommands(runner command.Runner, store transfer.Store, clock shared.Clock) error {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	if err := command.RegisterHandlerFor[CancelTransferCommand](runner, command.HandlerFunc(func(ctx context.Context, cmd command.Command) (command.Result, error) {
		c := cmd.(CancelTransferCommand)
		process, err := store.Find(ctx, c.ProcessID)
		if err != nil {
			return nil, err
		}
		if process.State.IsTerminal() {
			return nil, nil
		}
		detail := c.Reason
		if detail == "" {
			detail = "cancelled by operator"
		}
		process.Fail(detail, clock.Now())
		if err := store.Update(ctx, process); err != nil {
			return nil, err
		}
		return process, nil
	})); err != nil {
		return fmt.Errorf("transfer: registering CancelTransferCommand: %w", err)
	}

	if err := command.RegisterHandlerFor[RetryProvisioningCommand](runner, command.HandlerFunc(func(ctx context.Context, cmd command.Command) (command.Result, error) {
		c := cmd.(RetryProvisioningCommand)
		process, err := store.Find(ctx, c.ProcessID)
		if err != nil {
			return nil, err
		}
		if process.State != transfer.StateError || process.ResourceManifest.Empty() {
			return nil, fmt.Errorf("transfer: process %s is not retryable", c.ProcessID)
		}
		process.ErrorDetail = ""
		process.TransitionTo(transfer.StateProvisioning, clock.Now())
		if err := store.Update(ctx, process); err != nil {
			return nil, err
		}
		return process, nil
	})); err != nil {
		return fmt.Errorf("transfer: registering RetryProvisioningCommand: %w", err)
	}

	return nil
}
