package cli_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/adapters/cli"
	"github.com/andrescamacho/transferproc/internal/application/command"
	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

type fakeStore struct {
	mu        sync.Mutex
	processes map[string]*transfer.Process
}

func newFakeStore(processes ...*transfer.Process) *fakeStore {
	s := &fakeStore{processes: map[string]*transfer.Process{}}
	for _, p := range processes {
		s.processes[p.ID] = p
	}
	return s
}

func (s *fakeStore) NextForState(ctx context.Context, state transfer.State, batchSize int) ([]*transfer.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*transfer.Process
	for _, p := range s.processes {
		if p.State == state {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) Find(ctx context.Context, id string) (*transfer.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[id]
	if !ok {
		return nil, transfer.ErrProcessNotFound
	}
	return p, nil
}

func (s *fakeStore) Create(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes[process.ID] = process
	return nil
}

func (s *fakeStore) Update(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processes[process.ID] = process
	return nil
}

func (s *fakeStore) ProcessIDForTransferID(ctx context.Context, transferID string) (string, error) {
	return "", transfer.ErrProcessNotFound
}

var _ transfer.Store = (*fakeStore)(nil)

func newDeps(t *testing.T, store *fakeStore) cli.Deps {
	t.Helper()
	clock := shared.NewMockClock(time.Now())
	runner := command.NewRunner()
	require.NoError(t, transferapp.RegisterCommands(runner, store, clock))
	return cli.Deps{Store: store, Runner: runner, Clock: clock}
}

func TestCLI_Show_UnknownProcessReturnsError(t *testing.T) {
	store := newFakeStore()
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"show", "missing"})

	err := root.Execute()

	assert.ErrorIs(t, err, transfer.ErrProcessNotFound)
}

func TestCLI_Show_KnownProcessSucceeds(t *testing.T) {
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, time.Now())
	store := newFakeStore(p)
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"show", "p1"})

	err := root.Execute()

	assert.NoError(t, err)
}

func TestCLI_Cancel_ForcesNonTerminalProcessToError(t *testing.T) {
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, time.Now())
	p.TransitionTo(transfer.StateProvisioning, time.Now())
	store := newFakeStore(p)
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"cancel", "p1", "--reason", "operator requested"})

	err := root.Execute()

	require.NoError(t, err)
	updated, findErr := store.Find(context.Background(), "p1")
	require.NoError(t, findErr)
	assert.Equal(t, transfer.StateError, updated.State)
	assert.Equal(t, "operator requested", updated.ErrorDetail)
}

func TestCLI_Retry_RequiresErrorStateWithNonEmptyManifest(t *testing.T) {
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, time.Now())
	store := newFakeStore(p)
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"retry", "p1"})

	err := root.Execute()

	assert.Error(t, err)
}

func TestCLI_Retry_MovesRetryableProcessBackToProvisioning(t *testing.T) {
	p := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, time.Now())
	p.ResourceManifest = transfer.ResourceManifest{Definitions: []transfer.ResourceDefinition{{ID: "d1", ResourceType: "FILE"}}}
	p.TransitionTo(transfer.StateError, time.Now())
	p.ErrorDetail = "boom"
	store := newFakeStore(p)
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"retry", "p1"})

	err := root.Execute()

	require.NoError(t, err)
	updated, findErr := store.Find(context.Background(), "p1")
	require.NoError(t, findErr)
	assert.Equal(t, transfer.StateProvisioning, updated.State)
	assert.Empty(t, updated.ErrorDetail)
}

func TestCLI_List_FiltersByState(t *testing.T) {
	p1 := transfer.New("p1", transfer.TypeConsumer, transfer.DataRequest{ID: "t1"}, time.Now())
	p2 := transfer.New("p2", transfer.TypeConsumer, transfer.DataRequest{ID: "t2"}, time.Now())
	p2.TransitionTo(transfer.StateError, time.Now())
	store := newFakeStore(p1, p2)
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"list", "--state", "ERROR"})

	err := root.Execute()

	assert.NoError(t, err)
}

func TestCLI_List_UnknownStateNameErrors(t *testing.T) {
	store := newFakeStore()
	root := cli.NewRootCommand(newDeps(t, store))
	root.SetArgs([]string{"list", "--state", "NOT_A_STATE"})

	err := root.Execute()

	assert.Error(t, err)
}
