package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistrationMetrics(reg)
	m.ObserveAllocation(AllocationConflict)
	m.ObserveAllocation(AllocationOK)
	m.ObserveAllocation(AllocationOK)
	m.ObserveAllocationLatency(0.02)
	m.ObserveQueueAdvance(QueueCalled)
	m.ObserveCacheLookup("departments", CacheHit)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "opd_registration_allocation_attempts_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			counts[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts[AllocationOK])
	assert.Equal(t, 1.0, counts[AllocationConflict])
}

func TestRegistrationMetricsNilSafe(t *testing.T) {
	var m *RegistrationMetrics
	m.ObserveAllocation(AllocationOK)
	m.ObserveAllocationLatency(0.1)
	m.ObserveQueueAdvance(QueueEmpty)
	m.ObserveCacheLookup("doctors", CacheMiss)
}
