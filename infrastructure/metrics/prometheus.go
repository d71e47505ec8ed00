// Package metrics implements ports.MetricsCollector on Prometheus,
// exposing judge-call and benchmark-run observations for scraping.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/crmbench/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements MetricsCollector with a fixed metric
// family per concern: judge traffic, token usage, and run latency.
type PrometheusMetrics struct {
	judgeRequests *prometheus.CounterVec
	judgeTokens   *prometheus.CounterVec
	judgeLatency  *prometheus.HistogramVec
	runLatency    *prometheus.HistogramVec
	runCounter    *prometheus.CounterVec
}

// NewPrometheusMetrics registers the benchmark metric families with the
// given registerer. Pass prometheus.DefaultRegisterer for the global
// registry; tests pass a fresh prometheus.NewRegistry() to avoid
// duplicate-registration panics.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		judgeRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_requests_total",
				Help: "Total judge calls by model and outcome.",
			},
			[]string{"model", "status"},
		),
		judgeTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judge_tokens_total",
				Help: "Total judge tokens by model and direction.",
			},
			[]string{"model", "token_type"},
		),
		judgeLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "judge_latency_seconds",
				Help:    "Judge call latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "status"},
		),
		runLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "benchmark_run_duration_seconds",
				Help:    "Wall time of single benchmark runs.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"dataset"},
		),
		runCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "benchmark_runs_total",
				Help: "Completed benchmark runs by dataset and outcome.",
			},
			[]string{"dataset", "status"},
		),
	}
}

// RecordLatency implements MetricsCollector.
func (pm *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	pm.RecordHistogram(operation, duration.Seconds(), labels)
}

// RecordCounter implements MetricsCollector. Unknown metric names fall
// through to the run counter so callers never lose an observation.
func (pm *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	switch metric {
	case "judge_requests_total":
		pm.judgeRequests.WithLabelValues(label(labels, "model"), label(labels, "status")).Add(value)
	case "judge_tokens_total":
		pm.judgeTokens.WithLabelValues(label(labels, "model"), label(labels, "token_type")).Add(value)
	default:
		pm.runCounter.WithLabelValues(label(labels, "dataset"), label(labels, "status")).Add(value)
	}
}

// RecordHistogram implements MetricsCollector.
func (pm *PrometheusMetrics) RecordHistogram(metric string, value float64, labels map[string]string) {
	switch metric {
	case "judge_latency_seconds":
		pm.judgeLatency.WithLabelValues(label(labels, "model"), label(labels, "status")).Observe(value)
	default:
		pm.runLatency.WithLabelValues(label(labels, "dataset")).Observe(value)
	}
}

func label(labels map[string]string, key string) string {
	if v, ok := labels[key]; ok {
		return v
	}
	return "unknown"
}
