package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrometheusMetrics(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	require.NotNil(t, pm)
	assert.NotNil(t, pm.judgeRequests)
	assert.NotNil(t, pm.judgeTokens)
	assert.NotNil(t, pm.judgeLatency)
	assert.NotNil(t, pm.runLatency)
	assert.NotNil(t, pm.runCounter)
}

func TestPrometheusMetrics_RecordCounter(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("judge_requests_total", 1, map[string]string{
		"model":  "o3-mini",
		"status": "success",
	})
	pm.RecordCounter("judge_requests_total", 2, map[string]string{
		"model":  "o3-mini",
		"status": "success",
	})

	got := testutil.ToFloat64(pm.judgeRequests.WithLabelValues("o3-mini", "success"))
	assert.Equal(t, 3.0, got)
}

func TestPrometheusMetrics_RecordCounter_MissingLabels(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("judge_tokens_total", 42, nil)

	got := testutil.ToFloat64(pm.judgeTokens.WithLabelValues("unknown", "unknown"))
	assert.Equal(t, 42.0, got)
}

func TestPrometheusMetrics_RecordCounter_UnknownMetricFallsThrough(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordCounter("benchmark_runs_total", 1, map[string]string{
		"dataset": "D1",
		"status":  "success",
	})

	got := testutil.ToFloat64(pm.runCounter.WithLabelValues("D1", "success"))
	assert.Equal(t, 1.0, got)
}

func TestPrometheusMetrics_RecordLatency(t *testing.T) {
	pm := NewPrometheusMetrics(prometheus.NewRegistry())

	pm.RecordLatency("judge_latency_seconds", 150*time.Millisecond, map[string]string{
		"model":  "o3-mini",
		"status": "success",
	})

	count := testutil.CollectAndCount(pm.judgeLatency)
	assert.Equal(t, 1, count, "one labeled series should exist")
}
