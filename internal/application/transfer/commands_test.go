package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/application/command"
	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func newRegisteredRunner(t *testing.T, store *fakeStore, clock shared.Clock) command.Runner {
	t.Helper()
	runner := command.NewRunner()
	require.NoError(t, transferapp.RegisterCommands(runner, store, clock))
	return runner
}

func TestCancelTransferCommand_FailsNonTerminalProcess(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, now)
	p.TransitionTo(transfer.StateRequesting, now)
	require.NoError(t, store.Create(context.Background(), p))

	runner := newRegisteredRunner(t, store, shared.NewMockClock(now))

	result, err := runner.Run(context.Background(), transferapp.CancelTransferCommand{ProcessID: "p1", Reason: "operator requested"})

	require.NoError(t, err)
	updated := result.(*transfer.Process)
	assert.Equal(t, transfer.StateError, updated.State)
	assert.Equal(t, "operator requested", updated.ErrorDetail)
}

func TestCancelTransferCommand_NoOpOnTerminalProcess(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, now)
	p.TransitionTo(transfer.StateEnded, now)
	require.NoError(t, store.Create(context.Background(), p))

	runner := newRegisteredRunner(t, store, shared.NewMockClock(now))

	result, err := runner.Run(context.Background(), transferapp.CancelTransferCommand{ProcessID: "p1"})

	require.NoError(t, err)
	assert.Nil(t, result)

	stored, _ := store.Find(context.Background(), "p1")
	assert.Equal(t, transfer.StateEnded, stored.State)
}

func TestRetryProvisioningCommand_RejectsNonErrorState(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, now)
	require.NoError(t, store.Create(context.Background(), p))

	runner := newRegisteredRunner(t, store, shared.NewMockClock(now))

	_, err := runner.Run(context.Background(), transferapp.RetryProvisioningCommand{ProcessID: "p1"})

	assert.Error(t, err)
}

func TestRetryProvisioningCommand_RejectsEmptyManifest(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, now)
	p.Fail("boom", now)
	require.NoError(t, store.Create(context.Background(), p))

	runner := newRegisteredRunner(t, store, shared.NewMockClock(now))

	_, err := runner.Run(context.Background(), transferapp.RetryProvisioningCommand{ProcessID: "p1"})

	assert.Error(t, err)
}

func TestRetryProvisioningCommand_MovesToProvisioning(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, now)
	p.ResourceManifest = transfer.ResourceManifest{Definitions: []transfer.ResourceDefinition{{ID: "d1", ResourceType: "FILE"}}}
	p.Fail("boom", now)
	require.NoError(t, store.Create(context.Background(), p))

	runner := newRegisteredRunner(t, store, shared.NewMockClock(now))

	result, err := runner.Run(context.Background(), transferapp.RetryProvisioningCommand{ProcessID: "p1"})

	require.NoError(t, err)
	updated := result.(*transfer.Process)
	assert.Equal(t, transfer.StateProvisioning, updated.State)
	assert.Empty(t, updated.ErrorDetail)
}
