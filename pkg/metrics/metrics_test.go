package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 默认Registry是进程级全局状态，测试只比较增量

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := BooksCreatedTotal

	// 第二次调用不能重复注册（否则panic）
	assert.NotPanics(t, InitMetrics)
	assert.Same(t, first, BooksCreatedTotal)

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, LikeTogglesTotal)
	assert.NotNil(t, SlugProbes)
	assert.NotNil(t, MessagesDroppedTotal)
}

func TestCounter(t *testing.T) {
	InitMetrics()

	before := counterValue(t, BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)
	IncCounter(BooksCreatedTotal)

	assert.Equal(t, before+2, counterValue(t, BooksCreatedTotal))
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	liked := map[string]string{"action": "liked"}
	unliked := map[string]string{"action": "unliked"}
	beforeLiked := counterValue(t, LikeTogglesTotal.With(liked))
	beforeUnliked := counterValue(t, LikeTogglesTotal.With(unliked))

	IncCounterVec(LikeTogglesTotal, liked)
	IncCounterVec(LikeTogglesTotal, liked)
	IncCounterVec(LikeTogglesTotal, unliked)

	assert.Equal(t, beforeLiked+2, counterValue(t, LikeTogglesTotal.With(liked)))
	assert.Equal(t, beforeUnliked+1, counterValue(t, LikeTogglesTotal.With(unliked)))
}

func TestGauge(t *testing.T) {
	InitMetrics()

	HTTPRequestsInProgress.Set(0)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, float64(1), gaugeValue(t, HTTPRequestsInProgress))

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 1)
	assert.Equal(t, float64(1), gaugeValue(t, CircuitBreakerState.With(map[string]string{"name": "event-publisher"})))
}

func TestHistogram(t *testing.T) {
	InitMetrics()

	before := histogramCount(t, SlugProbes)
	ObserveHistogram(SlugProbes, 1)
	ObserveHistogram(SlugProbes, 3)

	assert.Equal(t, before+2, histogramCount(t, SlugProbes))

	labels := map[string]string{"method": "GET", "path": "/api/v1/books/:slug"}
	h := HTTPRequestDuration.With(labels).(prometheus.Histogram)
	beforeVec := histogramCount(t, h)
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.05)
	assert.Equal(t, beforeVec+1, histogramCount(t, h))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}
