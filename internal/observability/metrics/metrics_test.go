package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBackend(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)

	m.ObserveBackend("login", "ok", 0.05)
	m.ObserveBackend("login", "ok", 0.07)
	m.ObserveBackend("login", "rejected", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.backendTotal.WithLabelValues("login", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.backendTotal.WithLabelValues("login", "rejected")))
}

func TestObserveFlow(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPortalMetrics(reg)

	m.ObserveFlow("registration", "ok")
	m.ObserveFlow("registration", "error")
	m.ObserveFlow("registration", "error")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.flowTotal.WithLabelValues("registration", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.flowTotal.WithLabelValues("registration", "error")))
}

func TestNilReceiverSafe(t *testing.T) {
	var m *PortalMetrics
	m.ObserveBackend("login", "ok", 0.1)
	m.ObserveFlow("login", "ok")
}
