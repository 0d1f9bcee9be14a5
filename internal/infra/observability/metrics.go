package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	leadsCreated    *prometheus.CounterVec
	sweepRuns       *prometheus.CounterVec
	activeAlerts    prometheus.Gauge
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "leadboard_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadboard_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadboard_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadboard_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		leadsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadboard_leads_created_total",
				Help: "Total leads created, by source.",
			},
			[]string{"source"},
		),
		sweepRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadboard_notification_sweeps_total",
				Help: "Total notification sweep runs.",
			},
			[]string{"status"},
		),
		activeAlerts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leadboard_notifications_active",
				Help: "Notifications produced by the last sweep.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrLeadCreated increments the created-leads counter for a source.
func (m *Metrics) IncrLeadCreated(source string) {
	m.leadsCreated.WithLabelValues(source).Inc()
}

// RecordSweep records one notification sweep run and its result size.
func (m *Metrics) RecordSweep(ok bool, produced int) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.sweepRuns.WithLabelValues(status).Inc()
	if ok {
		m.activeAlerts.Set(float64(produced))
	}
}

// Snapshot aggregates counter totals from the registry for the stats
// endpoint. Histogram families report their sample count.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(families))
	for _, mf := range families {
		var total float64
		for _, metric := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				total += metric.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				total += metric.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				total += float64(metric.GetHistogram().GetSampleCount())
			}
		}
		out[mf.GetName()] = total
	}
	return out, nil
}
