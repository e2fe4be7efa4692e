package transfer_test

import (
	"context"
	"sync"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// fakeStore is an in-memory transfer.Store, grounded on the teacher's own
// in-memory repository test doubles (test/helpers/mock_*_repository.go).
type fakeStore struct {
	mu        sync.Mutex
	processes map[string]*transfer.Process
	byTransfer map[string]string

	lookupCalls int
	createCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		processes:  map[string]*transfer.Process{},
		byTransfer: map[string]string{},
	}
}

func (s *fakeStore) NextForState(ctx context.Context, state transfer.State, batchSize int) ([]*transfer.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*transfer.Process
	for _, p := range s.processes {
		if p.State == state {
			out = append(out, p)
			if len(out) >= batchSize {
				break
			}
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
	cp := *p
	return &cp, nil
}

func (s *fakeStore) Create(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	if _, exists := s.processes[process.ID]; exists {
		return transfer.ErrDuplicateProcess
	}
	cp := *process
	s.processes[process.ID] = &cp
	s.byTransfer[process.DataRequest.ID] = process.ID
	return nil
}

func (s *fakeStore) Update(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.processes[process.ID]; !exists {
		return transfer.ErrProcessNotFound
	}
	cp := *process
	s.processes[process.ID] = &cp
	return nil
}

func (s *fakeStore) ProcessIDForTransferID(ctx context.Context, transferID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookupCalls++
	pid, ok := s.byTransfer[transferID]
	if !ok {
		return "", transfer.ErrProcessNotFound
	}
	return pid, nil
}

var _ transfer.Store = (*fakeStore)(nil)

// fakeObservable records events without fanning out to real listeners.
type fakeObservable struct {
	mu     sync.Mutex
	events []transfer.Event
}

func (o *fakeObservable) RegisterListener(l transfer.Listener) transfer.SubscriptionID { return 0 }
func (o *fakeObservable) UnregisterListener(id transfer.SubscriptionID)                {}
func (o *fakeObservable) InvokeForEach(event transfer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

var _ transfer.Observable = (*fakeObservable)(nil)

// fakeMonitor discards log calls.
type fakeMonitor struct{}

func (fakeMonitor) Log(level, message string, metadata map[string]interface{}) {}

var _ transfer.Monitor = (*fakeMonitor)(nil)
