package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sharda_atlas"

// Metrics holds the Prometheus collectors for region retrieval and generation.
type Metrics struct {
	RegionRequests      *prometheus.CounterVec   // labels: outcome={success,generation,extraction,parse,validation,...}
	RegionCache         *prometheus.CounterVec   // labels: result={hit,miss}
	InflightShared      prometheus.Counter       // callers that joined an in-flight generation
	GenerationDuration  *prometheus.HistogramVec // labels: outcome={success,error,empty}
	StudioRequests      *prometheus.CounterVec   // labels: kind={video_script,decode}, outcome
	StaleResults        prometheus.Counter
	RegionEventsPublish *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.RegionRequests,
		m.RegionCache,
		m.InflightShared,
		m.GenerationDuration,
		m.StudioRequests,
		m.StaleResults,
		m.RegionEventsPublish,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RegionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_requests_total",
			Help:      "Region retrievals by outcome.",
		}, []string{"outcome"}),
		RegionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_cache_total",
			Help:      "Region cache lookups by result.",
		}, []string{"result"}),
		InflightShared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_inflight_shared_total",
			Help:      "Retrievals served by joining an already pending generation for the same region.",
		}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Generation API request duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"outcome"}),
		StudioRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "studio_requests_total",
			Help:      "Video script and decode requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explorer_stale_results_total",
			Help:      "Retrieval results discarded because the selection changed before they arrived.",
		}),
		RegionEventsPublish: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_events_published_total",
			Help:      "Region events published to the sink topic by outcome.",
		}, []string{"outcome"}),
	}
}
