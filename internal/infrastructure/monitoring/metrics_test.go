package monitoring

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCollector_ObserveSearch(t *testing.T) {
	m := NewMetricsCollector()

	m.ObserveSearch([]string{"isVegetarian", "excludeIngredients"}, 3, 5*time.Millisecond, nil)
	m.ObserveSearch(nil, 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("2", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("0", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.criteriaUsed.WithLabelValues("excludeIngredients")))
}

func TestMetricsCollector_HandlerExposesMetrics(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordOperation("create", OutcomeSuccess)
	m.RecordCacheLookup(true)
	m.ObserveHTTPRequest("GET", "/api/v1/recipe/{id}", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `recipebook_recipe_operations_total{operation="create",outcome="success"} 1`)
	assert.Contains(t, body, `recipebook_recipe_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `recipebook_http_requests_total{method="GET",route="/api/v1/recipe/{id}",status_code="200"} 1`)
}

func TestMetricsCollector_NilIsSafe(t *testing.T) {
	var m *MetricsCollector
	assert.NotPanics(t, func() {
		m.RecordOperation("create", OutcomeSuccess)
		m.ObserveSearch(nil, 0, 0, nil)
		m.RecordCacheLookup(false)
		m.ObserveHTTPRequest("GET", "/", 200, 0)
	})
}

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), config.AppConfig{Name: "recipebook"}, config.MonitoringConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.Enabled())
	_, span := tp.Tracer().Start(context.Background(), "search")
	span.End()
	assert.NoError(t, tp.Shutdown(context.Background()))
}
