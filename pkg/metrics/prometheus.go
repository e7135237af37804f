package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	overallScore  prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "confidence_fetch_duration_seconds",
				Help:    "Duration of upstream provider fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "op"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confidence_fetch_errors_total",
				Help: "Total number of upstream provider fetch failures",
			},
			[]string{"provider", "op"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confidence_cache_lookups_total",
				Help: "Cache lookups by scope and outcome",
			},
			[]string{"scope", "outcome"},
		),
		fallbacks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "confidence_neutral_fallbacks_total",
				Help: "Computations degraded to a neutral value",
			},
			[]string{"kind"},
		),
		overallScore: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "confidence_overall_score",
				Help: "Last computed overall confidence score",
			},
		),
	}
}

// RecordFetch records the latency of one upstream fetch.
func (r *Recorder) RecordFetch(provider, op string, seconds float64) {
	r.fetchDuration.WithLabelValues(provider, op).Observe(seconds)
}

// RecordFetchError records a failed upstream fetch.
func (r *Recorder) RecordFetchError(provider, op string) {
	r.fetchErrors.WithLabelValues(provider, op).Inc()
}

// RecordCacheHit records a cache hit for the given scope.
func (r *Recorder) RecordCacheHit(scope string) {
	r.cacheLookups.WithLabelValues(scope, "hit").Inc()
}

// RecordCacheMiss records a cache miss for the given scope.
func (r *Recorder) RecordCacheMiss(scope string) {
	r.cacheLookups.WithLabelValues(scope, "miss").Inc()
}

// RecordNeutralFallback records one degradation to a neutral value.
func (r *Recorder) RecordNeutralFallback(kind string) {
	r.fallbacks.WithLabelValues(kind).Inc()
}

// RecordOverallScore records the last computed overall score.
func (r *Recorder) RecordOverallScore(score float64) {
	r.overallScore.Set(score)
}
