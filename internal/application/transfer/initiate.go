package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// Initiator implements the idempotent initiation use case (spec §4.4).
// It is independent of Manager so commands and the operator CLI can share
// it without depending on a running scheduler.
type Initiator struct {
	Store transfer.Store
	Clock shared.Clock
}

// InitiateConsumerRequest returns the existing process id for
// dataRequest.ID, or creates a new CONSUMER process and returns its id.
func (i *Initiator) InitiateConsumerRequest(ctx context.Context, dataRequest transfer.DataRequest) (string, error) {
	return i.initiate(ctx, transfer.TypeConsumer, dataRequest)
}

// InitiateProviderRequest returns the existing process id for
// dataRequest.ID, or creates a new PROVIDER process and returns its id.
func (i *Initiator) InitiateProviderRequest(ctx context.Context, dataRequest transfer.DataRequest) (string, error) {
	return i.initiate(ctx, transfer.TypeProvider, dataRequest)
}

func (i *Initiator) initiate(ctx context.Context, typ transfer.Type, dataRequest transfer.DataRequest) (string, error) {
	pid, err := i.Store.ProcessIDForTransferID(ctx, dataRequest.ID)
	if err == nil {
		return pid, nil
	}
	if !errors.Is(err, transfer.ErrProcessNotFound) {
		return "", err
	}

	clock := i.Clock
	if clock == nil {
		clock = shared.NewRealClock()
	}
	process := transfer.New(uuid.NewString(), typ, dataRequest, clock.Now())
	if err := i.Store.Create(ctx, process); err != nil {
		return "", err
	}
	return process.ID, nil
}
