package steps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"github.com/andrescamacho/transferproc/internal/adapters/persistence"
	"github.com/andrescamacho/transferproc/internal/application/command"
	transferapp "github.com/andrescamacho/transferproc/internal/application/transfer"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
	"github.com/andrescamacho/transferproc/internal/infrastructure/database"
)

// recordingObservable is the BDD harness's Observable: it keeps every
// event seen, keyed by process id, so a scenario can assert the exact
// transition sequence a process went through.
type recordingObservable struct {
	mu     sync.Mutex
	events []transfer.Event
}

func (o *recordingObservable) RegisterListener(l transfer.Listener) transfer.SubscriptionID { return 0 }
func (o *recordingObservable) UnregisterListener(id transfer.SubscriptionID)                {}
func (o *recordingObservable) InvokeForEach(event transfer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObservable) forProcess(id string) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, e := range o.events {
		if e.ProcessID == id {
			out = append(out, e.To.String())
		}
	}
	return out
}

var _ transfer.Observable = (*recordingObservable)(nil)

// countingStore decorates a real Store to count Create calls, letting S6
// assert idempotent initiation against the actual persistence adapter
// rather than a store fake.
type countingStore struct {
	transfer.Store
	mu          sync.Mutex
	createCalls int
}

func (s *countingStore) Create(ctx context.Context, process *transfer.Process) error {
	s.mu.Lock()
	s.createCalls++
	s.mu.Unlock()
	return s.Store.Create(ctx, process)
}

type stubProvisionManager struct {
	responses []transfer.ProvisionResponse
	err       error
}

func (p *stubProvisionManager) Provision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.ProvisionResponse, error)) {
	onComplete(p.responses, p.err)
}
func (p *stubProvisionManager) Deprovision(ctx context.Context, process *transfer.Process, onComplete func([]transfer.DeprovisionResponse, error)) {
	onComplete(nil, nil)
}

var _ transfer.ProvisionManager = (*stubProvisionManager)(nil)

type stubDataFlowManager struct {
	result transfer.FlowResult
}

func (d *stubDataFlowManager) Initiate(ctx context.Context, process *transfer.Process) transfer.FlowResult {
	return d.result
}

var _ transfer.DataFlowManager = (*stubDataFlowManager)(nil)

type stubDispatcher struct {
	result transfer.DispatchResult
}

func (d *stubDispatcher) Send(ctx context.Context, process *transfer.Process, message transfer.DataRequest, onComplete func(transfer.DispatchResult)) {
	onComplete(d.result)
}

var _ transfer.RemoteMessageDispatcherRegistry = (*stubDispatcher)(nil)

type stubManifestGenerator struct {
	manifest transfer.ResourceManifest
}

func (g *stubManifestGenerator) GenerateResourceManifest(ctx context.Context, process *transfer.Process) (transfer.ResourceManifest, error) {
	return g.manifest, nil
}

var _ transfer.ResourceManifestGenerator = (*stubManifestGenerator)(nil)

type stubCheckerRegistry struct {
	checkers map[string]transfer.StatusChecker
}

func (r *stubCheckerRegistry) Resolve(resourceType string) (transfer.StatusChecker, bool) {
	c, ok := r.checkers[resourceType]
	return c, ok
}

var _ transfer.StatusCheckerRegistry = (*stubCheckerRegistry)(nil)

type noWaitStrategy struct{}

func (noWaitStrategy) WaitForMillis() int64 { return 0 }
func (noWaitStrategy) Success()              {}

type jsonTypeManagerStub struct{}

func (jsonTypeManagerStub) Marshal(v interface{}) ([]byte, error)      { return nil, nil }
func (jsonTypeManagerStub) Unmarshal(data []byte, v interface{}) error { return nil }

type silentMonitor struct{}

func (silentMonitor) Log(level, message string, metadata map[string]interface{}) {}

// schedulerContext is the shared world for all steps in scheduler.feature.
type schedulerContext struct {
	db      *gorm.DB
	store   *countingStore
	obs     *recordingObservable
	manager *transferapp.Manager

	manifestGenerator *stubManifestGenerator
	provisionManager  *stubProvisionManager
	dataFlowManager   *stubDataFlowManager
	dispatcher        *stubDispatcher
	checkerRegistry   *stubCheckerRegistry

	lastSeededID string

	initiator *transferapp.Initiator
	firstPID  string
	secondPID string
}

func (sc *schedulerContext) reset() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return err
	}
	sc.db = db
	sc.store = &countingStore{Store: persistence.NewTransferProcessRepository(db)}
	sc.obs = &recordingObservable{}
	sc.manifestGenerator = &stubManifestGenerator{}
	sc.provisionManager = &stubProvisionManager{}
	sc.dataFlowManager = &stubDataFlowManager{}
	sc.dispatcher = &stubDispatcher{}
	sc.checkerRegistry = &stubCheckerRegistry{checkers: map[string]transfer.StatusChecker{}}
	sc.manager = nil
	sc.initiator = &transferapp.Initiator{Store: sc.store, Clock: shared.NewRealClock()}
	sc.firstPID, sc.secondPID = "", ""
	return nil
}

func (sc *schedulerContext) close() {
	if sc.db != nil {
		database.Close(sc.db)
	}
}

func (sc *schedulerContext) buildManager() error {
	m, err := transferapp.NewBuilder().
		WithStore(sc.store).
		WithProvisionManager(sc.provisionManager).
		WithDataFlowManager(sc.dataFlowManager).
		WithDispatcherRegistry(sc.dispatcher).
		WithManifestGenerator(sc.manifestGenerator).
		WithStatusCheckerRegistry(sc.checkerRegistry).
		WithObservable(sc.obs).
		WithCommandQueue(command.NewQueue(10)).
		WithCommandRunner(command.NewRunner()).
		WithWaitStrategy(noWaitStrategy{}).
		WithTypeManager(jsonTypeManagerStub{}).
		WithMonitor(silentMonitor{}).
		WithClock(shared.NewRealClock()).
		WithBatchSize(10).
		Build()
	if err != nil {
		return err
	}
	sc.manager = m
	return nil
}

func (sc *schedulerContext) seed(id, transferID string, typ transfer.Type, dataRequest transfer.DataRequest, state transfer.State) error {
	dataRequest.ID = transferID
	process := transfer.New(id, typ, dataRequest, time.Now())
	if state != transfer.StateInitial {
		process.TransitionTo(state, time.Now())
	}
	sc.lastSeededID = id
	return sc.store.Create(context.Background(), process)
}

// Given steps

func (sc *schedulerContext) aConsumerProcessForTransferWithAFiniteManagedDataRequest(id, transferID string) error {
	return sc.seed(id, transferID, transfer.TypeConsumer, transfer.DataRequest{
		TransferType:     transfer.TransferType{IsFinite: true},
		ManagedResources: true,
	}, transfer.StateInitial)
}

func (sc *schedulerContext) aProviderProcessAlreadyInState(id, transferID, state string) error {
	s, ok := parseStateName(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	return sc.seed(id, transferID, transfer.TypeProvider, transfer.DataRequest{}, s)
}

func (sc *schedulerContext) aConsumerProcessAlreadyInState(id, transferID, state string) error {
	s, ok := parseStateName(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	return sc.seed(id, transferID, transfer.TypeConsumer, transfer.DataRequest{}, s)
}

func (sc *schedulerContext) aConsumerProcessWithAnUnboundedManagedDataRequestAlreadyInState(id, transferID, state string) error {
	s, ok := parseStateName(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	return sc.seed(id, transferID, transfer.TypeConsumer, transfer.DataRequest{
		TransferType:     transfer.TransferType{IsFinite: false},
		ManagedResources: true,
	}, s)
}

func (sc *schedulerContext) itsResourceManifestHasOneDefinition(resourceType string) error {
	sc.manifestGenerator.manifest = transfer.ResourceManifest{
		Definitions: []transfer.ResourceDefinition{{ID: "d1", ResourceType: resourceType}},
	}
	// Scenarios that seed a process already in PROVISIONING need the
	// manifest persisted on the process itself too, since dispatch()
	// reads process.ResourceManifest rather than regenerating it.
	return sc.withLatestProcess(func(p *transfer.Process) {
		p.ResourceManifest = sc.manifestGenerator.manifest
	})
}

func (sc *schedulerContext) withLatestProcess(mutate func(*transfer.Process)) error {
	// Only one process is seeded per scenario by the time this step runs.
	processes, err := sc.store.NextForState(context.Background(), transfer.StateProvisioning, 100)
	if err != nil {
		return err
	}
	if len(processes) == 0 {
		return nil
	}
	p := processes[0]
	mutate(p)
	return sc.store.Update(context.Background(), p)
}

func (sc *schedulerContext) provisioningSucceedsWithADestinationResource(resourceType string) error {
	sc.provisionManager.responses = []transfer.ProvisionResponse{
		{Resource: transfer.ProvisionedResource{ID: "r1", ResourceDefinitionID: "d1", ResourceType: resourceType, IsDestination: true}},
	}
	return nil
}

func (sc *schedulerContext) provisioningFails(resourceType string) error {
	sc.provisionManager.err = fmt.Errorf("provisioning %s failed", resourceType)
	return nil
}

func (sc *schedulerContext) theRemoteDispatcherAcknowledges() error {
	sc.dispatcher.result = transfer.DispatchResult{Acknowledged: true}
	return nil
}

func (sc *schedulerContext) theStatusCheckerReportsReady(resourceType string) error {
	sc.checkerRegistry.checkers[resourceType] = func(*transfer.Process, transfer.ProvisionedResource) (bool, error) {
		return true, nil
	}
	return nil
}

func (sc *schedulerContext) theDataFlowManagerInitiatesSuccessfullyWithEndpoint(endpoint string) error {
	sc.dataFlowManager.result = transfer.FlowResult{EndpointRef: endpoint}
	return nil
}

func (sc *schedulerContext) itAlreadyHasOneDestinationResourceProvisioned() error {
	processes, err := sc.store.NextForState(context.Background(), transfer.StateRequested, 100)
	if err != nil {
		return err
	}
	if len(processes) == 0 {
		return fmt.Errorf("no seeded REQUESTED process found")
	}
	p := processes[0]
	p.ProvisionedResourceSet.Add(transfer.ProvisionedResource{ID: "r1", IsDestination: true})
	return sc.store.Update(context.Background(), p)
}

func (sc *schedulerContext) itHasNoProvisionedResourcesYet() error {
	return nil
}

func (sc *schedulerContext) noProcessExistsYetForTransfer(transferID string) error {
	return nil
}

// When steps

// theSchedulerTicks runs the real Start/Stop daemon loop for a short,
// bounded window. With noWaitStrategy returning a zero delay, the loop
// spins until stopped, which is enough real time for every seeded
// scenario's handler chain (even S1's full nine-state cascade) to settle.
func (sc *schedulerContext) theSchedulerTicks() error {
	if err := sc.buildManager(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sc.manager.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	sc.manager.Stop()
	return nil
}

func (sc *schedulerContext) aConsumerRequestForTransferIsInitiated(transferID string) error {
	pid, err := sc.initiator.InitiateConsumerRequest(context.Background(), transfer.DataRequest{ID: transferID})
	if err != nil {
		return err
	}
	sc.firstPID = pid
	return nil
}

func (sc *schedulerContext) theSameConsumerRequestForTransferIsInitiatedAgain(transferID string) error {
	pid, err := sc.initiator.InitiateConsumerRequest(context.Background(), transfer.DataRequest{ID: transferID})
	if err != nil {
		return err
	}
	sc.secondPID = pid
	return nil
}

// Then steps

func (sc *schedulerContext) processShouldBeInState(id, state string) error {
	s, ok := parseStateName(state)
	if !ok {
		return fmt.Errorf("unknown state %q", state)
	}
	p, err := sc.store.Find(context.Background(), id)
	if err != nil {
		return err
	}
	if p.State != s {
		return fmt.Errorf("expected %s to be in state %s, got %s", id, s, p.State)
	}
	return nil
}

func (sc *schedulerContext) processShouldStillBeInState(id, state string) error {
	return sc.processShouldBeInState(id, state)
}

func (sc *schedulerContext) theObservedTransitionsForShouldBe(id, expected string) error {
	got := sc.obs.forProcess(id)
	want := splitCSV(expected)
	if !equalSlices(got, want) {
		return fmt.Errorf("expected transitions %v for %s, got %v", want, id, got)
	}
	return nil
}

func (sc *schedulerContext) processShouldNeverHaveBeenObservedInState(id, state string) error {
	for _, s := range sc.obs.forProcess(id) {
		if s == state {
			return fmt.Errorf("process %s was observed in state %s", id, state)
		}
	}
	return nil
}

func (sc *schedulerContext) theSchedulerTickShouldReportNoProgress() error {
	if len(sc.obs.forProcess(sc.lastSeededID)) != 0 {
		return fmt.Errorf("expected no transitions for %s, got %v", sc.lastSeededID, sc.obs.forProcess(sc.lastSeededID))
	}
	return nil
}

func (sc *schedulerContext) bothInitiationsShouldReturnTheSameProcessID() error {
	if sc.firstPID == "" || sc.secondPID == "" {
		return fmt.Errorf("both initiations must have run before this assertion")
	}
	if sc.firstPID != sc.secondPID {
		return fmt.Errorf("expected the same process id, got %q and %q", sc.firstPID, sc.secondPID)
	}
	return nil
}

func (sc *schedulerContext) theStoreShouldHaveCreatedExactlyOneProcess() error {
	sc.store.mu.Lock()
	defer sc.store.mu.Unlock()
	if sc.store.createCalls != 1 {
		return fmt.Errorf("expected exactly 1 Create call, got %d", sc.store.createCalls)
	}
	return nil
}

func parseStateName(name string) (transfer.State, bool) {
	all := append(append([]transfer.State{}, transfer.ActiveStates...), transfer.StateCompleted, transfer.StateEnded, transfer.StateError, transfer.StateInitial)
	for _, s := range all {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// InitializeSchedulerScenario registers every step in scheduler.feature.
func InitializeSchedulerScenario(ctx *godog.ScenarioContext) {
	sc := &schedulerContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, sc.reset()
	})
	ctx.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		sc.close()
		return ctx, err
	})

	ctx.Step(`^a CONSUMER process "([^"]*)" for transfer "([^"]*)" with a finite, managed data request$`, sc.aConsumerProcessForTransferWithAFiniteManagedDataRequest)
	ctx.Step(`^a PROVIDER process "([^"]*)" for transfer "([^"]*)" already in state "([^"]*)"$`, sc.aProviderProcessAlreadyInState)
	ctx.Step(`^a CONSUMER process "([^"]*)" for transfer "([^"]*)" already in state "([^"]*)"$`, sc.aConsumerProcessAlreadyInState)
	ctx.Step(`^a CONSUMER process "([^"]*)" for transfer "([^"]*)" with an unbounded, managed data request already in state "([^"]*)"$`, sc.aConsumerProcessWithAnUnboundedManagedDataRequestAlreadyInState)
	ctx.Step(`^its resource manifest has one "([^"]*)" definition$`, sc.itsResourceManifestHasOneDefinition)
	ctx.Step(`^provisioning "([^"]*)" succeeds with a destination resource$`, sc.provisioningSucceedsWithADestinationResource)
	ctx.Step(`^provisioning "([^"]*)" fails$`, sc.provisioningFails)
	ctx.Step(`^the remote dispatcher acknowledges$`, sc.theRemoteDispatcherAcknowledges)
	ctx.Step(`^the "([^"]*)" status checker reports ready$`, sc.theStatusCheckerReportsReady)
	ctx.Step(`^the data flow manager initiates successfully with endpoint "([^"]*)"$`, sc.theDataFlowManagerInitiatesSuccessfullyWithEndpoint)
	ctx.Step(`^it already has one destination resource provisioned$`, sc.itAlreadyHasOneDestinationResourceProvisioned)
	ctx.Step(`^it has no provisioned resources yet$`, sc.itHasNoProvisionedResourcesYet)
	ctx.Step(`^no process exists yet for transfer "([^"]*)"$`, sc.noProcessExistsYetForTransfer)

	ctx.Step(`^the scheduler ticks$`, sc.theSchedulerTicks)
	ctx.Step(`^a consumer request for transfer "([^"]*)" is initiated$`, sc.aConsumerRequestForTransferIsInitiated)
	ctx.Step(`^the same consumer request for transfer "([^"]*)" is initiated again$`, sc.theSameConsumerRequestForTransferIsInitiatedAgain)

	ctx.Step(`^process "([^"]*)" should be in state "([^"]*)"$`, sc.processShouldBeInState)
	ctx.Step(`^process "([^"]*)" should still be in state "([^"]*)"$`, sc.processShouldStillBeInState)
	ctx.Step(`^the observed transitions for "([^"]*)" should be "([^"]*)"$`, sc.theObservedTransitionsForShouldBe)
	ctx.Step(`^process "([^"]*)" should never have been observed in state "([^"]*)"$`, sc.processShouldNeverHaveBeenObservedInState)
	ctx.Step(`^the scheduler tick should report no progress$`, sc.theSchedulerTickShouldReportNoProgress)
	ctx.Step(`^both initiations should return the same process id$`, sc.bothInitiationsShouldReturnTheSameProcessID)
	ctx.Step(`^the store should have created exactly one process$`, sc.theStoreShouldHaveCreatedExactlyOneProcess)
}
