package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 测试指标初始化(重复调用不panic)
func TestInitMetrics(t *testing.T) {
	require.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, BookOperationsTotal)
	assert.NotNil(t, BookConflictsTotal)
	assert.NotNil(t, CacheRequestsTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, MessagesPublishedTotal)
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "metrics_test", "result": "success"}
	before := testutil.ToFloat64(BookOperationsTotal.With(labels))

	IncCounterVec(BookOperationsTotal, labels)
	IncCounterVec(BookOperationsTotal, labels)
	IncCounterVec(BookOperationsTotal, map[string]string{"operation": "metrics_test", "result": "failure"})

	assert.Equal(t, before+2, testutil.ToFloat64(BookOperationsTotal.With(labels)))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	before := testutil.ToFloat64(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	assert.Equal(t, before+2, testutil.ToFloat64(HTTPRequestsInProgress))

	DecGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, before, testutil.ToFloat64(HTTPRequestsInProgress))
}

func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "metrics-test-a"}, 0)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "metrics-test-b"}, 1)

	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test-a")))
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test-b")))
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"operation": "metrics_test"}
	ObserveHistogramVec(BookOperationDuration, labels, 0.002)
	ObserveHistogramVec(BookOperationDuration, labels, 0.2)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(BookOperationDuration, "book_operation_duration_seconds"), 1)
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(nil))
	assert.Equal(t, "failure", Result(errors.New("boom")))
}
