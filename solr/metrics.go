package solr

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments connector requests. One instance is shared across
// all solr connectors built from a config; a nil *Metrics disables
// instrumentation.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the connector metrics on reg (the default
// registerer when nil). Registration is idempotent: an already-present
// collector is adopted instead of failing.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "querybridge_solr_requests_total",
			Help: "Select requests issued to Solr, by server and outcome.",
		}, []string{"server", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "querybridge_solr_request_duration_seconds",
			Help:    "Select request latency, by server.",
			Buckets: prometheus.DefBuckets,
		}, []string{"server"}),
	}
	m.requests = register(reg, m.requests).(*prometheus.CounterVec)
	m.duration = register(reg, m.duration).(*prometheus.HistogramVec)
	return m
}

func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

func (m *Metrics) observe(server, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(server, outcome).Inc()
	m.duration.WithLabelValues(server).Observe(seconds)
}
