package transfer

import (
	"context"
	"sync"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// White-box fakes for scheduler_test.go, which exercises dispatch/tick
// directly and so must live in package transfer alongside the production
// code.

type schedulerFakeStore struct {
	mu         sync.Mutex
	processes  map[string]*transfer.Process
	byTransfer map[string]string
}

func newSchedulerFakeStore() *schedulerFakeStore {
	return &schedulerFakeStore{processes: map[string]*transfer.Process{}, byTransfer: map[string]string{}}
}

func (s *schedulerFakeStore) seed(p *transfer.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.processes[p.ID] = &cp
	s.byTransfer[p.DataRequest.ID] = p.ID
}

func (s *schedulerFakeStore) NextForState(ctx context.Context, state transfer.State, batchSize int) ([]*transfer.Process, error) {
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

func (s *schedulerFakeStore) Find(ctx context.Context, id string) (*transfer.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.processes[id]
	if !ok {
		return nil, transfer.ErrProcessNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *schedulerFakeStore) Create(ctx context.Context, process *transfer.Process) error {
	s.seed(process)
	return nil
}

func (s *schedulerFakeStore) Update(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processes[process.ID]; !ok {
		return transfer.ErrProcessNotFound
	}
	cp := *process
	s.processes[process.ID] = &cp
	return nil
}

func (s *schedulerFakeStore) ProcessIDForTransferID(ctx context.Context, transferID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid, ok := s.byTransfer[transferID]
	if !ok {
		return "", transfer.ErrProcessNotFound
	}
	return pid, nil
}

var _ transfer.Store = (*schedulerFakeStore)(nil)

type schedulerFakeObservable struct {
	mu     sync.Mutex
	events []transfer.Event
}

func (o *schedulerFakeObservable) RegisterListener(l transfer.Listener) transfer.SubscriptionID {
	return 0
}
func (o *schedulerFakeObservable) UnregisterListener(id transfer.SubscriptionID) {}
func (o *schedulerFakeObservable) InvokeForEach(event transfer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *schedulerFakeObservable) toStrings() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, e := range o.events {
		out = append(out, e.To.String())
	}
	return out
}

var _ transfer.Observable = (*schedulerFakeObservable)(nil)

type schedulerFakeMonitor struct{}

func (schedulerFakeMonitor) Log(level, message string, metadata map[string]interface{}) {}

var _ transfer.Monitor = (*schedulerFakeMonitor)(nil)

type schedulerFakeManifestGenerator struct {
	manifest transfer.ResourceManifest
	err      error
}

func (g *schedulerFakeManifestGenerator) GenerateResourceManifest(ctx context.Context, process *transfer.Process) (transfer.ResourceManifest, error) {
	return g.manifest, g.err
}

var _ transfer.ResourceManifestGenerator = (*schedulerFakeManifestGenerator)(nil)

type schedulerFakeProvisionManager struct {
	responses []transfer.ProvisionResponse
	err       error
}

func (p *schedulerFakeProvisionManager) Provision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.ProvisionResponse, error)) {
	onComplete(p.responses, p.err)
}

func (p *schedulerFakeProvisionManager) Deprovision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.DeprovisionResponse, error)) {
	onComplete(nil, p.err)
}

var _ transfer.ProvisionManager = (*schedulerFakeProvisionManager)(nil)

type schedulerFakeDataFlowManager struct {
	result transfer.FlowResult
}

func (d *schedulerFakeDataFlowManager) Initiate(ctx context.Context, process *transfer.Process) transfer.FlowResult {
	return d.result
}

var _ transfer.DataFlowManager = (*schedulerFakeDataFlowManager)(nil)

type schedulerFakeDispatcher struct {
	result transfer.DispatchResult
}

func (d *schedulerFakeDispatcher) Send(ctx context.Context, process *transfer.Process, message transfer.DataRequest, onComplete func(transfer.DispatchResult)) {
	onComplete(d.result)
}

var _ transfer.RemoteMessageDispatcherRegistry = (*schedulerFakeDispatcher)(nil)

type schedulerFakeCheckerRegistry struct {
	checkers map[string]transfer.StatusChecker
}

func (r *schedulerFakeCheckerRegistry) Resolve(resourceType string) (transfer.StatusChecker, bool) {
	c, ok := r.checkers[resourceType]
	return c, ok
}

var _ transfer.StatusCheckerRegistry = (*schedulerFakeCheckerRegistry)(nil)

type schedulerFakeWaitStrategy struct{}

func (schedulerFakeWaitStrategy) WaitForMillis() int64 { return 0 }
func (schedulerFakeWaitStrategy) Success()              {}

var _ transfer.WaitStrategy = (*schedulerFakeWaitStrategy)(nil)

type schedulerFakeTypeManager struct{}

func (schedulerFakeTypeManager) Marshal(v interface{}) ([]byte, error)      { return nil, nil }
func (schedulerFakeTypeManager) Unmarshal(data []byte, v interface{}) error { return nil }

var _ transfer.TypeManager = (*schedulerFakeTypeManager)(nil)
