package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func TestInitiator_CreatesNewProcessWhenNoneExists(t *testing.T) {
	store := newFakeStore()
	initiator := &transferapp.Initiator{Store: store, Clock: shared.NewMockClock(time.Now())}

	id, err := initiator.InitiateProviderRequest(context.Background(), transfer.DataRequest{ID: "t1"})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.createCalls)

	p, err := store.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, transfer.TypeProvider, p.Type)
	assert.Equal(t, transfer.StateInitial, p.State)
}

// TestInitiator_DuplicateDeliveryIsIdempotent is scenario S6: two successive
// initiations for the same transfer id must yield exactly one store.create
// and two lookups.
func TestInitiator_DuplicateDeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore()
	initiator := &transferapp.Initiator{Store: store, Clock: shared.NewMockClock(time.Now())}
	dataRequest := transfer.DataRequest{ID: "t1"}

	firstID, err := initiator.InitiateProviderRequest(context.Background(), dataRequest)
	require.NoError(t, err)

	secondID, err := initiator.InitiateProviderRequest(context.Background(), dataRequest)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 2, store.lookupCalls)
}
