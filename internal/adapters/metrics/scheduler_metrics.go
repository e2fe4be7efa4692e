package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

const (
	namespace = "transferproc"
	subsystem = "scheduler"
)

// SchedulerMetricsCollector exposes the scheduler's tick and transition
// counters, one collector per concern, mirroring how the teacher split its
// API metrics across distinct CounterVec/HistogramVec fields.
type SchedulerMetricsCollector struct {
	ticksTotal        prometheus.Counter
	productiveTicks   prometheus.Counter
	transitionsTotal  *prometheus.CounterVec
	handlerErrors     *prometheus.CounterVec
	commandsTotal     *prometheus.CounterVec
	queueDepth        prometheus.Gauge
	tickWaitMillis    prometheus.Histogram
}

var _ transfer.Metrics = (*SchedulerMetricsCollector)(nil)

// NewSchedulerMetricsCollector constructs the collector's metric
// descriptors without registering them.
func NewSchedulerMetricsCollector() *SchedulerMetricsCollector {
	return &SchedulerMetricsCollector{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Total scheduler ticks executed.",
		}),
		productiveTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "productive_ticks_total",
			Help:      "Scheduler ticks that advanced at least one process.",
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "transitions_total",
			Help:      "State transitions applied, labeled by source and target state.",
		}, []string{"from", "to"}),
		handlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handler_errors_total",
			Help:      "Transient handler errors, labeled by state.",
		}, []string{"state"}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "commands_total",
			Help:      "Commands drained from the queue, labeled by outcome.",
		}, []string{"outcome"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "command_queue_depth",
			Help:      "Commands waiting in the queue at the start of the last drain.",
		}),
		tickWaitMillis: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_wait_millis",
			Help:      "WaitStrategy delay chosen between ticks, in milliseconds.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		}),
	}
}

// MustRegister registers every collector with reg, panicking on collision
// (mirrors prometheus.MustRegister's own contract).
func (c *SchedulerMetricsCollector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		c.ticksTotal,
		c.productiveTicks,
		c.transitionsTotal,
		c.handlerErrors,
		c.commandsTotal,
		c.queueDepth,
		c.tickWaitMillis,
	)
}

// RecordTick increments the tick counter and, when advanced is true, the
// productive-tick counter.
func (c *SchedulerMetricsCollector) RecordTick(advanced bool) {
	c.ticksTotal.Inc()
	if advanced {
		c.productiveTicks.Inc()
	}
}

// RecordTickWait observes the delay chosen by the WaitStrategy.
func (c *SchedulerMetricsCollector) RecordTickWait(ms int64) {
	c.tickWaitMillis.Observe(float64(ms))
}

// RecordHandlerError increments the handler-error counter for state.
func (c *SchedulerMetricsCollector) RecordHandlerError(state transfer.State) {
	c.handlerErrors.WithLabelValues(state.String()).Inc()
}

// RecordCommandOutcome increments the command counter for outcome
// ("applied" or "failed").
func (c *SchedulerMetricsCollector) RecordCommandOutcome(outcome string) {
	c.commandsTotal.WithLabelValues(outcome).Inc()
}

// SetQueueDepth records the command queue's depth at drain time.
func (c *SchedulerMetricsCollector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// Listener returns a transfer.Listener that feeds the transitions
// counter, meant to be registered with the scheduler's Observable.
func (c *SchedulerMetricsCollector) Listener() transfer.Listener {
	return func(event transfer.Event) {
		c.transitionsTotal.WithLabelValues(event.From.String(), event.To.String()).Inc()
	}
}
