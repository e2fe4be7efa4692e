package registries

import (
	"context"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// FlowInitiatorFunc starts a provider-side data flow for process,
// returning the endpoint reference on success.
type FlowInitiatorFunc func(ctx context.Context, process *transfer.Process) (string, error)

// DataFlowManagerRegistry dispatches flow initiation by
// dataRequest.destinationType.
type DataFlowManagerRegistry struct {
	initiators map[string]FlowInitiatorFunc
}

// NewDataFlowManagerRegistry creates an empty registry.
func NewDataFlowManagerRegistry() *DataFlowManagerRegistry {
	return &DataFlowManagerRegistry{initiators: make(map[string]FlowInitiatorFunc)}
}

var _ transfer.DataFlowManager = (*DataFlowManagerRegistry)(nil)

// Register binds destinationType to fn.
func (r *DataFlowManagerRegistry) Register(destinationType string, fn FlowInitiatorFunc) {
	r.initiators[destinationType] = fn
}

// Initiate dispatches to the registered initiator, or fails if none is
// registered for the process's destination type.
func (r *DataFlowManagerRegistry) Initiate(ctx context.Context, process *transfer.Process) transfer.FlowResult {
	fn, ok := r.initiators[process.DataRequest.DestinationType]
	if !ok {
		return transfer.FlowResult{Err: errNoInitiator(process.DataRequest.DestinationType)}
	}
	endpoint, err := fn(ctx, process)
	if err != nil {
		return transfer.FlowResult{Err: err}
	}
	return transfer.FlowResult{EndpointRef: endpoint}
}

type noInitiatorError string

func (e noInitiatorError) Error() string {
	return "registries: no data flow initiator for destination type " + string(e)
}

func errNoInitiator(destinationType string) error {
	return noInitiatorError(destinationType)
}
