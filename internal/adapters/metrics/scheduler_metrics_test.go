package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/transferproc/internal/adapters/metrics"
	"github.com/andrescamacho/transferproc/internal/domain/transfer"
)

func TestSchedulerMetricsCollector_MustRegisterDoesNotPanicOnFreshRegistry(t *testing.T) {
	c := metrics.NewSchedulerMetricsCollector()
	reg := prometheus.NewRegistry()

	assert.NotPanics(t, func() { c.MustRegister(reg) })
}

func TestSchedulerMetricsCollector_RecordTick_IncrementsBothCountersWhenAdvanced(t *testing.T) {
	c := metrics.NewSchedulerMetricsCollector()
	reg := prometheus.NewRegistry()
	c.MustRegister(reg)

	c.RecordTick(true)

	families, err := reg.Gather()
	require.NoError(t, err)

	var foundTicks, foundProductive bool
	for _, f := range families {
		switch f.GetName() {
		case "transferproc_scheduler_ticks_total":
			foundTicks = true
			assert.Equal(t, float64(1), f.Metric[0].GetCounter().GetValue())
		case "transferproc_scheduler_productive_ticks_total":
			foundProductive = true
			assert.Equal(t, float64(1), f.Metric[0].GetCounter().GetValue())
		}
	}
	assert.True(t, foundTicks)
	assert.True(t, foundProductive)
}

func TestSchedulerMetricsCollector_RecordTick_SkipsProductiveCounterWhenNotAdvanced(t *testing.T) {
	c := metrics.NewSchedulerMetricsCollector()
	reg := prometheus.NewRegistry()
	c.MustRegister(reg)

	c.RecordTick(false)

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == "transferproc_scheduler_productive_ticks_total" {
			assert.Equal(t, float64(0), f.Metric[0].GetCounter().GetValue())
		}
	}
}

func TestSchedulerMetricsCollector_Listener_FeedsTransitionsCounter(t *testing.T) {
	c := metrics.NewSchedulerMetricsCollector()
	reg := prometheus.NewRegistry()
	c.MustRegister(reg)

	listener := c.Listener()
	listener(transfer.Event{From: transfer.StateInitial, To: transfer.StateProvisioning})

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "transferproc_scheduler_transitions_total" {
			found = true
			labels := f.Metric[0].GetLabel()
			assert.Equal(t, float64(1), f.Metric[0].GetCounter().GetValue())
			var from, to string
			for _, l := range labels {
				if l.GetName() == "from" {
					from = l.GetValue()
				}
				if l.GetName() == "to" {
					to = l.GetValue()
				}
			}
			assert.Equal(t, "INITIAL", from)
			assert.Equal(t, "PROVISIONING", to)
		}
	}
	assert.True(t, found)
}

func TestSchedulerMetricsCollector_RecordHandlerError_IncrementsByState(t *testing.T) {
	c := metrics.NewSchedulerMetricsCollector()
	reg := prometheus.NewRegistry()
	c.MustRegister(reg)

	c.RecordHandlerError(transfer.StateProvisioning)
	c.RecordHandlerError(transfer.StateProvisioning)

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == "transferproc_scheduler_handler_errors_total" {
			assert.Equal(t, float64(2), f.Metric[0].GetCounter().GetValue())
		}
	}
}
