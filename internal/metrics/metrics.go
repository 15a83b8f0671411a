package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the scoring pipeline.
type Registry struct {
	registry *prometheus.Registry

	// Pipeline stage metrics
	StageDuration *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec
	ActiveRuns    prometheus.Gauge

	// Pre-filter metrics
	PrefilterScored  prometheus.Histogram
	PrefilterSkipped prometheus.Counter

	// Model metrics
	ModelCalls      *prometheus.CounterVec
	FallbackBatches prometheus.Counter
	AgentFailures   *prometheus.CounterVec

	// Snapshot provider metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// NewRegistry creates a metrics registry with every pipeline metric
// registered on its own Prometheus registry.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quaestor_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage", "result"},
		),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quaestor_hybrid_runs_total",
				Help: "Total hybrid pipeline runs by persona and status",
			},
			[]string{"persona", "status"},
		),

		ActiveRuns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "quaestor_active_runs",
				Help: "Number of currently executing hybrid runs",
			},
		),

		PrefilterScored: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quaestor_prefilter_scored",
				Help:    "Candidates surviving the deterministic pre-filter per run",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),

		PrefilterSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quaestor_prefilter_skipped_total",
				Help: "Tickers skipped for missing ratio data",
			},
		),

		ModelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quaestor_model_calls_total",
				Help: "Batch model calls by outcome",
			},
			[]string{"outcome"},
		),

		FallbackBatches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quaestor_fallback_batches_total",
				Help: "Whole batches degraded to deterministic fallback results",
			},
		),

		AgentFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quaestor_agent_failures_total",
				Help: "Research sub-agent failures by agent",
			},
			[]string{"agent"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quaestor_cache_hits_total",
				Help: "Snapshot cache hits by cache type",
			},
			[]string{"cache_type"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quaestor_cache_misses_total",
				Help: "Snapshot cache misses by cache type",
			},
			[]string{"cache_type"},
		),
	}

	r.registry.MustRegister(
		r.StageDuration,
		r.RunsTotal,
		r.ActiveRuns,
		r.PrefilterScored,
		r.PrefilterSkipped,
		r.ModelCalls,
		r.FallbackBatches,
		r.AgentFailures,
		r.CacheHits,
		r.CacheMisses,
	)

	return r
}

// Handler returns the HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
