package metrics

import "github.com/prometheus/client_golang/prometheus"

// PortalMetrics exposes counters/histograms for backend calls and flows.
type PortalMetrics struct {
	backendTotal   *prometheus.CounterVec
	backendLatency *prometheus.HistogramVec
	flowTotal      *prometheus.CounterVec
}

func NewPortalMetrics(reg prometheus.Registerer) *PortalMetrics {
	m := &PortalMetrics{
		backendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total clinic backend calls by operation and outcome",
		}, []string{"operation", "outcome"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of clinic backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		flowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "flows",
			Name:      "outcomes_total",
			Help:      "Total flow executions by flow and outcome",
		}, []string{"flow", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.backendTotal, m.backendLatency, m.flowTotal)
	return m
}

// ObserveBackend records one backend call. Satisfies the gateway's
// metrics hook.
func (m *PortalMetrics) ObserveBackend(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.backendTotal.WithLabelValues(operation, outcome).Inc()
	m.backendLatency.WithLabelValues(operation).Observe(seconds)
}

// ObserveFlow records the outcome of one flow execution.
func (m *PortalMetrics) ObserveFlow(flow, outcome string) {
	if m == nil {
		return
	}
	m.flowTotal.WithLabelValues(flow, outcome).Inc()
}
