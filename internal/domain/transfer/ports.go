package transfer

import "context"

// Store is the persistent repository of transfer processes, indexed by id
// and queryable by state (spec §6 TransferProcessStore).
type Store interface {
	// NextForState returns up to batchSize processes currently in state.
	// Duplicate returns across calls are tolerated: state transitions are
	// idempotent per target state.
	NextForState(ctx context.Context, state State, batchSize int) ([]*Process, error)

	// Find returns the process with id, or ErrProcessNotFound.
	Find(ctx context.Context, id string) (*Process, error)

	// Create persists a new process. Implementations must reject duplicate
	// ids with ErrDuplicateProcess.
	Create(ctx context.Context, process *Process) error

	// Update persists a mutated process.
	Update(ctx context.Context, process *Process) error

	// ProcessIDForTransferID looks up the process backing a given transfer
	// id, returning ErrProcessNotFound if none exists yet. It backs
	// idempotent initiation (spec §4.4).
	ProcessIDForTransferID(ctx context.Context, transferID string) (string, error)
}

// ProvisionResponse is returned by ProvisionManager.Provision for each
// resource the provisioner brought up.
type ProvisionResponse struct {
	Resource ProvisionedResource
}

// DeprovisionResponse is returned by ProvisionManager.Deprovision for each
// resource torn down.
type DeprovisionResponse struct {
	ResourceID string
}

// ProvisionManager provisions and tears down the resources named by a
// process's manifest. Implementations start work asynchronously and
// deliver the result via the callback; the scheduler never blocks on
// either call.
type ProvisionManager interface {
	Provision(ctx context.Context, process *Process, onComplete func(responses []ProvisionResponse, err error))
	Deprovision(ctx context.Context, process *Process, onComplete func(responses []DeprovisionResponse, err error))
}

// FlowResult is the outcome of DataFlowManager.Initiate.
type FlowResult struct {
	EndpointRef string
	Err         error
}

// Success reports whether the flow was initiated without error.
func (r FlowResult) Success() bool { return r.Err == nil }

// DataFlowManager starts the provider-side data flow once a process is
// PROVISIONED.
type DataFlowManager interface {
	Initiate(ctx context.Context, process *Process) FlowResult
}

// StatusChecker is a predicate over a resource determining whether its
// side of the transfer has completed.
type StatusChecker func(process *Process, resource ProvisionedResource) (bool, error)

// StatusCheckerRegistry resolves a StatusChecker by resource type. A
// missing entry is reported via the bool return, distinguishing "no
// checker registered" from any checker result.
type StatusCheckerRegistry interface {
	Resolve(resourceType string) (StatusChecker, bool)
}

// ResourceManifestGenerator produces the resource manifest for a newly
// initiated process.
type ResourceManifestGenerator interface {
	GenerateResourceManifest(ctx context.Context, process *Process) (ResourceManifest, error)
}

// DispatchResult is returned by RemoteMessageDispatcherRegistry.Send's
// callback.
type DispatchResult struct {
	Acknowledged bool
	Err          error
}

// RemoteMessageDispatcherRegistry sends a DataRequest to the remote peer
// and reports acknowledgment asynchronously.
type RemoteMessageDispatcherRegistry interface {
	Send(ctx context.Context, process *Process, message DataRequest, onComplete func(DispatchResult))
}

// WaitStrategy controls the delay between scheduler ticks.
type WaitStrategy interface {
	// WaitForMillis returns how long the scheduler should sleep before the
	// next tick.
	WaitForMillis() int64
	// Success resets backoff; called only on ticks that advanced at least
	// one process.
	Success()
}

// Event describes a successful state transition, delivered to Observable
// listeners after the write that produced it.
type Event struct {
	ProcessID string
	From      State
	To        State
}

// Listener receives Events synchronously, in the order transitions
// occurred within a tick.
type Listener func(Event)

// SubscriptionID identifies a registered Listener for later removal.
// Function values are not comparable in Go, so registration hands back an
// opaque token rather than asking callers to unregister by identity.
type SubscriptionID int

// Observable notifies listeners of lifecycle events. Listener failures are
// logged by the caller and never affect scheduling.
type Observable interface {
	RegisterListener(l Listener) SubscriptionID
	UnregisterListener(id SubscriptionID)
	InvokeForEach(event Event)
}

// TypeManager is the serializer used by dispatchers for wire payloads. The
// core never interprets its output; adapters round-trip DataRequest and
// response types through it.
type TypeManager interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// Monitor receives informational and error logs from the manager and its
// handlers.
type Monitor interface {
	Log(level, message string, metadata map[string]interface{})
}

// Metrics receives the manager's per-tick and per-handler measurements. One
// method per concern: ticks, tick wait, handler errors, command outcomes,
// queue depth (transitions are fed separately, through Observable).
type Metrics interface {
	// RecordTick is called once per completed tick with whether it
	// advanced at least one process.
	RecordTick(advanced bool)
	// RecordTickWait observes the delay the WaitStrategy chose before the
	// next tick, in milliseconds.
	RecordTickWait(ms int64)
	// RecordHandlerError is called whenever a state handler logs an error,
	// labeled by the state it was handling.
	RecordHandlerError(state State)
	// RecordCommandOutcome is called once per drained command with
	// "applied" or "failed".
	RecordCommandOutcome(outcome string)
	// SetQueueDepth records how many commands were waiting at the start of
	// the last drain.
	SetQueueDepth(depth int)
}
