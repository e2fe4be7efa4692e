package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// RecoveryManager periodically sweeps for processes stuck in a
// non-terminal state — a handler started async work whose external
// collaborator never called back. It is diagnostic/remedial: it never
// changes the §4.1 graph, only re-drives or fails processes that have sat
// past their timeout.
type RecoveryManager struct {
	store   transfer.Store
	monitor transfer.Monitor
	clock   shared.Clock

	timeout     time.Duration
	maxAttempts int

	attempts map[string]int
}

// NewRecoveryManager creates a RecoveryManager. timeout bounds how long a
// process may sit in a non-terminal state before being considered stuck;
// maxAttempts bounds how many times a stuck process is re-driven before it
// is forced to ERROR.
func NewRecoveryManager(store transfer.Store, monitor transfer.Monitor, clock shared.Clock, timeout time.Duration, maxAttempts int) *RecoveryManager {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RecoveryManager{
		store:       store,
		monitor:     monitor,
		clock:       clock,
		timeout:     timeout,
		maxAttempts: maxAttempts,
		attempts:    make(map[string]int),
	}
}

// Sweep scans every active state except INITIAL for processes whose
// UpdatedAt predates the timeout and recovers each one.
func (r *RecoveryManager) Sweep(ctx context.Context, batchSize int) {
	now := r.clock.Now()
	for _, state := range transfer.ActiveStates {
		if state == transfer.StateInitial {
			continue
		}
		processes, err := r.store.NextForState(ctx, state, batchSize)
		if err != nil {
			r.monitor.Log("error", "recovery sweep: store failure", map[string]interface{}{
				"state": state.String(),
				"error": err.Error(),
			})
			continue
		}
		for _, process := range processes {
			if now.Sub(process.UpdatedAt) < r.timeout {
				continue
			}
			r.recover(ctx, process)
		}
	}
}

func (r *RecoveryManager) recover(ctx context.Context, process *transfer.Process) {
	r.attempts[process.ID]++
	if r.attempts[process.ID] > r.maxAttempts {
		process.Fail(fmt.Sprintf("stuck in %s past recovery attempts", process.State), r.clock.Now())
		if err := r.store.Update(ctx, process); err != nil {
			r.monitor.Log("error", "recovery: failed to force ERROR", map[string]interface{}{
				"process": process.ID,
				"error":   err.Error(),
			})
			return
		}
		delete(r.attempts, process.ID)
		r.monitor.Log("warn", "process forced to ERROR after exceeding recovery attempts", map[string]interface{}{
			"process": process.ID,
		})
		return
	}

	switch process.State {
	case transfer.StateProvisioning, transfer.StateDeprovisioning:
		// Re-stamp UpdatedAt so the recovery timeout restarts; the process
		// stays in its state, where each scheduler tick's handler
		// re-invokes the async collaborator.
		process.UpdatedAt = r.clock.Now()
		if err := r.store.Update(ctx, process); err != nil {
			r.monitor.Log("error", "recovery: failed to re-drive process", map[string]interface{}{
				"process": process.ID,
				"error":   err.Error(),
			})
			return
		}
		r.monitor.Log("info", "re-driving stuck process", map[string]interface{}{
			"process": process.ID,
			"state":   process.State.String(),
		})
	default:
		process.Fail(fmt.Sprintf("stuck in %s with no recovery path", process.State), r.clock.Now())
		if err := r.store.Update(ctx, process); err != nil {
			r.monitor.Log("error", "recovery: failed to force ERROR", map[string]interface{}{
				"process": process.ID,
				"error":   err.Error(),
			})
			return
		}
		delete(r.attempts, process.ID)
	}
}
