package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the authorization layer.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	KeySetFetchesTotal *prometheus.CounterVec
	KeySetKeys         prometheus.Gauge
	AuthorizationTotal *prometheus.CounterVec
}

// New creates and registers all collectors on the given registry
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		KeySetFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casting_jwks_fetch_total",
				Help: "Total number of signing key set fetches by result",
			},
			[]string{"result"},
		),
		KeySetKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "casting_jwks_keys",
				Help: "Number of signing keys currently cached",
			},
		),
		AuthorizationTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casting_authorization_total",
				Help: "Total number of authorization decisions by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.KeySetFetchesTotal,
		m.KeySetKeys,
		m.AuthorizationTotal,
	)

	return m
}

// RecordKeySetFetch counts a key set fetch and, on success, the cached key count
func (m *Metrics) RecordKeySetFetch(err error, keys int) {
	if m == nil {
		return
	}
	if err != nil {
		m.KeySetFetchesTotal.WithLabelValues("failure").Inc()
		return
	}
	m.KeySetFetchesTotal.WithLabelValues("success").Inc()
	m.KeySetKeys.Set(float64(keys))
}

// RecordAuthorization counts one authorization decision
func (m *Metrics) RecordAuthorization(outcome string) {
	if m == nil {
		return
	}
	m.AuthorizationTotal.WithLabelValues(outcome).Inc()
}
