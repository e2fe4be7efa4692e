package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/transferproc/internal/application/command"
	"github.com/andrescamacho/transferproc/internal/domain/shared"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

// Manager is the state-machine driver: it owns a long-running worker,
// polls the store by state, dispatches per-state handlers, and applies
// resulting transitions.
type Manager struct {
	store                 transfer.Store
	provisionManager      transfer.ProvisionManager
	dataFlowManager       transfer.DataFlowManager
	dispatcherRegistry    transfer.RemoteMessageDispatcherRegistry
	manifestGenerator     transfer.ResourceManifestGenerator
	statusCheckerRegistry transfer.StatusCheckerRegistry
	observable            transfer.Observable
	commandQueue          *command.Queue
	commandRunner         command.Runner
	waitStrategy          transfer.WaitStrategy
	typeManager           transfer.TypeManager
	monitor               transfer.Monitor
	metrics               transfer.Metrics
	clock                 shared.Clock
	batchSize             int

	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

// Builder constructs a Manager, validating that every required
// collaborator has been supplied before Build returns (spec §4.6).
type Builder struct {
	m   Manager
	err error
}

// NewBuilder starts a fresh Builder.
func NewBuilder() *Builder {
	return &Builder{m: Manager{clock: shared.NewRealClock()}}
}

func (b *Builder) WithStore(s transfer.Store) *Builder {
	b.m.store = s
	return b
}

func (b *Builder) WithProvisionManager(p transfer.ProvisionManager) *Builder {
	b.m.provisionManager = p
	return b
}

func (b *Builder) WithDataFlowManager(d transfer.DataFlowManager) *Builder {
	b.m.dataFlowManager = d
	return b
}

func (b *Builder) WithDispatcherRegistry(r transfer.RemoteMessageDispatcherRegistry) *Builder {
	b.m.dispatcherRegistry = r
	return b
}

func (b *Builder) WithManifestGenerator(g transfer.ResourceManifestGenerator) *Builder {
	b.m.manifestGenerator = g
	return b
}

func (b *Builder) WithStatusCheckerRegistry(r transfer.StatusCheckerRegistry) *Builder {
	b.m.statusCheckerRegistry = r
	return b
}

func (b *Builder) WithObservable(o transfer.Observable) *Builder {
	b.m.observable = o
	return b
}

func (b *Builder) WithCommandQueue(q *command.Queue) *Builder {
	b.m.commandQueue = q
	return b
}

func (b *Builder) WithCommandRunner(r command.Runner) *Builder {
	b.m.commandRunner = r
	return b
}

func (b *Builder) WithWaitStrategy(w transfer.WaitStrategy) *Builder {
	b.m.waitStrategy = w
	return b
}

func (b *Builder) WithTypeManager(t transfer.TypeManager) *Builder {
	b.m.typeManager = t
	return b
}

func (b *Builder) WithMonitor(m transfer.Monitor) *Builder {
	b.m.monitor = m
	return b
}

// WithMetrics sets the optional Metrics sink. Unset, the manager records
// nothing.
func (b *Builder) WithMetrics(m transfer.Metrics) *Builder {
	b.m.metrics = m
	return b
}

func (b *Builder) WithClock(c shared.Clock) *Builder {
	b.m.clock = c
	return b
}

func (b *Builder) WithBatchSize(n int) *Builder {
	b.m.batchSize = n
	return b
}

// Build validates every collaborator is set and returns the assembled
// Manager.
func (b *Builder) Build() (*Manager, error) {
	if b.err != nil {
		return nil, b.err
	}
	required := map[string]bool{
		"store":                 b.m.store != nil,
		"provisionManager":      b.m.provisionManager != nil,
		"dataFlowManager":       b.m.dataFlowManager != nil,
		"dispatcherRegistry":    b.m.dispatcherRegistry != nil,
		"manifestGenerator":     b.m.manifestGenerator != nil,
		"statusCheckerRegistry": b.m.statusCheckerRegistry != nil,
		"observable":            b.m.observable != nil,
		"commandQueue":          b.m.commandQueue != nil,
		"commandRunner":         b.m.commandRunner != nil,
		"waitStrategy":          b.m.waitStrategy != nil,
		"typeManager":           b.m.typeManager != nil,
		"monitor":               b.m.monitor != nil,
	}
	for name, ok := range required {
		if !ok {
			return nil, fmt.Errorf("transfer: builder missing required %s", name)
		}
	}
	if b.m.batchSize <= 0 {
		return nil, fmt.Errorf("transfer: batchSize must be > 0")
	}

	m := b.m
	if m.metrics == nil {
		m.metrics = noopMetrics{}
	}
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	return &m, nil
}

// noopMetrics is the default transfer.Metrics when WithMetrics is never
// called.
type noopMetrics struct{}

func (noopMetrics) RecordTick(advanced bool)            {}
func (noopMetrics) RecordTickWait(ms int64)             {}
func (noopMetrics) RecordHandlerError(transfer.State)   {}
func (noopMetrics) RecordCommandOutcome(outcome string) {}
func (noopMetrics) SetQueueDepth(depth int)             {}

var _ transfer.Metrics = noopMetrics{}

// Start launches the worker goroutine. Start must be called at most once.
func (m *Manager) Start(ctx context.Context) {
	go m.run(ctx)
}

// Stop signals shutdown and blocks until the current tick completes.
func (m *Manager) Stop() {
	m.once.Do(func() {
		close(m.stopCh)
	})
	<-m.doneCh
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.doneCh)
	for {
		select {
		case <-m.stopCh:
			return
		default:
		}

		advanced := m.tick(ctx)
		m.metrics.RecordTick(advanced)
		if advanced {
			m.waitStrategy.Success()
		}

		select {
		case <-m.stopCh:
			return
		default:
			waitMillis := m.waitStrategy.WaitForMillis()
			m.metrics.RecordTickWait(waitMillis)
			m.clock.Sleep(waitDuration(waitMillis))
		}
	}
}

func waitDuration(ms int64) time.Duration {
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// tick drains pending commands, then visits every active state in the
// fixed §4.2 order, applying that state's handler to every process the
// store returns. It reports whether any process was advanced.
func (m *Manager) tick(ctx context.Context) bool {
	advanced := false

	drained := m.commandQueue.Drain()
	m.metrics.SetQueueDepth(len(drained))
	for _, cmd := range drained {
		if _, err := m.commandRunner.Run(ctx, cmd); err != nil {
			m.monitor.Log("error", "command execution failed", map[string]interface{}{
				"command": fmt.Sprintf("%T", cmd),
				"error":   err.Error(),
			})
			m.metrics.RecordCommandOutcome("failed")
			continue
		}
		m.metrics.RecordCommandOutcome("applied")
	}

	for _, state := range transfer.ActiveStates {
		processes, err := m.store.NextForState(ctx, state, m.batchSize)
		if err != nil {
			m.monitor.Log("error", "store failure listing processes for state", map[string]interface{}{
				"state": state.String(),
				"error": err.Error(),
			})
			continue
		}
		for _, process := range processes {
			if m.dispatch(ctx, state, process) {
				advanced = true
			}
		}
	}

	return advanced
}
