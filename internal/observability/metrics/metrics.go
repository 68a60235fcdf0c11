package metrics

import "github.com/prometheus/client_golang/prometheus"

// Allocation results.
const (
	AllocationOK        = "ok"
	AllocationConflict  = "conflict"
	AllocationExhausted = "exhausted"
	AllocationError     = "error"
)

// Queue advance results.
const (
	QueueCalled = "called"
	QueueEmpty  = "empty"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// RegistrationMetrics exposes counters for booking, queue and cache flows.
type RegistrationMetrics struct {
	allocationTotal   *prometheus.CounterVec
	allocationLatency prometheus.Histogram
	queueAdvanceTotal *prometheus.CounterVec
	cacheLookupTotal  *prometheus.CounterVec
}

func NewRegistrationMetrics(reg prometheus.Registerer) *RegistrationMetrics {
	m := &RegistrationMetrics{
		allocationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opd",
			Subsystem: "registration",
			Name:      "allocation_attempts_total",
			Help:      "Registration number allocation attempts by result",
		}, []string{"result"}),
		allocationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "opd",
			Subsystem: "registration",
			Name:      "allocation_latency_seconds",
			Help:      "Latency of a full allocation including retries",
			Buckets:   prometheus.DefBuckets,
		}),
		queueAdvanceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opd",
			Subsystem: "queue",
			Name:      "advance_total",
			Help:      "Queue advance requests by result",
		}, []string{"result"}),
		cacheLookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "opd",
			Subsystem: "cache",
			Name:      "lookup_total",
			Help:      "Display collection cache lookups by collection and result",
		}, []string{"collection", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.allocationTotal, m.allocationLatency, m.queueAdvanceTotal, m.cacheLookupTotal)
	return m
}

func (m *RegistrationMetrics) ObserveAllocation(result string) {
	if m == nil {
		return
	}
	m.allocationTotal.WithLabelValues(result).Inc()
}

func (m *RegistrationMetrics) ObserveAllocationLatency(seconds float64) {
	if m == nil {
		return
	}
	m.allocationLatency.Observe(seconds)
}

func (m *RegistrationMetrics) ObserveQueueAdvance(result string) {
	if m == nil {
		return
	}
	m.queueAdvanceTotal.WithLabelValues(result).Inc()
}

func (m *RegistrationMetrics) ObserveCacheLookup(collection, result string) {
	if m == nil {
		return
	}
	m.cacheLookupTotal.WithLabelValues(collection, result).Inc()
}
