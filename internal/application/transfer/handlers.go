package transfer

import (
	"context"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// dispatch applies the handler for state to process, returning whether the
// process was advanced (a successful state transition was persisted).
func (m *Manager) dispatch(ctx context.Context, state transfer.State, process *transfer.Process) bool {
	switch state {
	case transfer.StateInitial:
		return m.handleInitial(ctx, process)
	case transfer.StateProvisioning:
		return m.handleProvisioning(ctx, process)
	case transfer.StateProvisioned:
		return m.handleProvisioned(ctx, process)
	case transfer.StateRequesting:
		return m.handleRequesting(ctx, process)
	case transfer.StateRequested:
		return m.handleRequested(ctx, process)
	case transfer.StateInProgress, transfer.StateStreaming:
		return m.handleInProgressOrStreaming(ctx, process)
	case transfer.StateDeprovisioning:
		return m.handleDeprovisioning(ctx, process)
	case transfer.StateDeprovisioned:
		return m.handleDeprovisioned(ctx, process)
	default:
		m.monitor.Log("error", "no handler for state", map[string]interface{}{
			"process": process.ID,
			"state":   state.String(),
		})
		m.metrics.RecordHandlerError(state)
		return false
	}
}

// persist writes process's new state, then fires the Observable event for
// the transition. Called only after a transition has actually been applied
// to process — never on a no-transition outcome.
func (m *Manager) persist(ctx context.Context, process *transfer.Process, from transfer.State) bool {
	if err := m.store.Update(ctx, process); err != nil {
		m.monitor.Log("error", "store failure updating process", map[string]interface{}{
			"process": process.ID,
			"error":   err.Error(),
		})
		m.metrics.RecordHandlerError(from)
		return false
	}
	m.observable.InvokeForEach(transfer.Event{ProcessID: process.ID, From: from, To: process.State})
	return true
}

// handleInitial generates the manifest and moves the process to
// PROVISIONING, or straight to PROVISIONED when the manifest is empty.
func (m *Manager) handleInitial(ctx context.Context, process *transfer.Process) bool {
	manifest, err := m.manifestGenerator.GenerateResourceManifest(ctx, process)
	if err != nil {
		m.monitor.Log("error", "manifest generation failed", map[string]interface{}{
			"process": process.ID,
			"error":   err.Error(),
		})
		m.metrics.RecordHandlerError(transfer.StateInitial)
		return false
	}

	from := process.State
	process.ResourceManifest = manifest
	if manifest.Empty() {
		process.TransitionTo(transfer.StateProvisioned, m.clock.Now())
	} else {
		process.TransitionTo(transfer.StateProvisioning, m.clock.Now())
	}
	return m.persist(ctx, process, from)
}

// handleProvisioning starts provisioning asynchronously. The completion
// callback re-fetches the process from the store before mutating, per
// §5's race policy.
func (m *Manager) handleProvisioning(ctx context.Context, process *transfer.Process) bool {
	m.provisionManager.Provision(ctx, process, func(responses []transfer.ProvisionResponse, err error) {
		fresh, ferr := m.store.Find(ctx, process.ID)
		if ferr != nil {
			m.monitor.Log("error", "provision callback: process re-fetch failed", map[string]interface{}{
				"process": process.ID,
				"error":   ferr.Error(),
			})
			m.metrics.RecordHandlerError(transfer.StateProvisioning)
			return
		}
		from := fresh.State
		if err != nil {
			fresh.Fail(err.Error(), m.clock.Now())
			m.persist(ctx, fresh, from)
			return
		}
		for _, resp := range responses {
			fresh.ProvisionedResourceSet.Add(resp.Resource)
		}
		fresh.TransitionTo(transfer.StateProvisioned, m.clock.Now())
		m.persist(ctx, fresh, from)
	})
	// The transition, if any, happens in the callback above; this tick does
	// not itself advance the process.
	return false
}

// handleProvisioned branches on process type: consumers move straight to
// REQUESTING, providers must first initiate the data flow.
func (m *Manager) handleProvisioned(ctx context.Context, process *transfer.Process) bool {
	from := process.State
	if process.Type == transfer.TypeConsumer {
		process.TransitionTo(transfer.StateRequesting, m.clock.Now())
		return m.persist(ctx, process, from)
	}

	result := m.dataFlowManager.Initiate(ctx, process)
	if !result.Success() {
		detail := "data flow initiation failed"
		if result.Err != nil {
			detail = result.Err.Error()
		}
		process.Fail(detail, m.clock.Now())
		return m.persist(ctx, process, from)
	}
	process.TransitionTo(transfer.StateInProgress, m.clock.Now())
	return m.persist(ctx, process, from)
}

// handleRequesting dispatches the DataRequest to the remote peer
// asynchronously. A send failure leaves the process in REQUESTING for a
// later retry; no transition, no write.
func (m *Manager) handleRequesting(ctx context.Context, process *transfer.Process) bool {
	m.dispatcherRegistry.Send(ctx, process, process.DataRequest, func(result transfer.DispatchResult) {
		if result.Err != nil || !result.Acknowledged {
			m.monitor.Log("info", "dispatch not acknowledged, will retry", map[string]interface{}{
				"process": process.ID,
			})
			return
		}
		fresh, ferr := m.store.Find(ctx, process.ID)
		if ferr != nil {
			m.monitor.Log("error", "dispatch callback: process re-fetch failed", map[string]interface{}{
				"process": process.ID,
				"error":   ferr.Error(),
			})
			m.metrics.RecordHandlerError(transfer.StateRequesting)
			return
		}
		from := fresh.State
		fresh.TransitionTo(transfer.StateRequested, m.clock.Now())
		m.persist(ctx, fresh, from)
	})
	return false
}

// handleRequested waits for a destination resource to appear, then forks
// to IN_PROGRESS or STREAMING based on whether the transfer is finite.
func (m *Manager) handleRequested(ctx context.Context, process *transfer.Process) bool {
	if !process.ProvisionedResourceSet.HasDestinationResource() {
		return false
	}

	from := process.State
	if process.DataRequest.TransferType.IsFinite {
		process.TransitionTo(transfer.StateInProgress, m.clock.Now())
	} else {
		process.TransitionTo(transfer.StateStreaming, m.clock.Now())
	}
	return m.persist(ctx, process, from)
}

// handleInProgressOrStreaming runs the status-check conjunction; on
// completion it immediately continues the chain to DEPROVISIONING or
// DEPROVISIONED, since COMPLETED is not in ActiveStates and so is never
// polled by nextForState (spec §4.2 lists COMPLETED as a resting point only
// within this handler, never as an independently-scanned state).
func (m *Manager) handleInProgressOrStreaming(ctx context.Context, process *transfer.Process) bool {
	done, ready, err := evaluateStatus(process, m.statusCheckerRegistry)
	if err != nil {
		m.monitor.Log("error", "status check failed", map[string]interface{}{
			"process": process.ID,
			"error":   err.Error(),
		})
		m.metrics.RecordHandlerError(process.State)
		return false
	}
	if !ready || !done {
		return false
	}

	from := process.State
	process.TransitionTo(transfer.StateCompleted, m.clock.Now())
	if !m.persist(ctx, process, from) {
		return false
	}

	from = process.State
	if process.ManagedResources() {
		process.TransitionTo(transfer.StateDeprovisioning, m.clock.Now())
	} else {
		process.TransitionTo(transfer.StateDeprovisioned, m.clock.Now())
	}
	return m.persist(ctx, process, from)
}

// handleDeprovisioning starts deprovisioning asynchronously, re-fetching
// before mutating in the completion callback.
func (m *Manager) handleDeprovisioning(ctx context.Context, process *transfer.Process) bool {
	m.provisionManager.Deprovision(ctx, process, func(responses []transfer.DeprovisionResponse, err error) {
		fresh, ferr := m.store.Find(ctx, process.ID)
		if ferr != nil {
			m.monitor.Log("error", "deprovision callback: process re-fetch failed", map[string]interface{}{
				"process": process.ID,
				"error":   ferr.Error(),
			})
			m.metrics.RecordHandlerError(transfer.StateDeprovisioning)
			return
		}
		from := fresh.State
		if err != nil {
			fresh.Fail(err.Error(), m.clock.Now())
			m.persist(ctx, fresh, from)
			return
		}
		fresh.TransitionTo(transfer.StateDeprovisioned, m.clock.Now())
		m.persist(ctx, fresh, from)
	})
	return false
}

// handleDeprovisioned moves the process to its final resting state.
func (m *Manager) handleDeprovisioned(ctx context.Context, process *transfer.Process) bool {
	from := process.State
	process.TransitionTo(transfer.StateEnded, m.clock.Now())
	return m.persist(ctx, process, from)
}
