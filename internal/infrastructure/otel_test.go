package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unidash/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_Tracing(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "none"

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)

	cfg.TraceExporter = "jaeger"
	_, err = InitializeOTel(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{ServiceName: "unidash-test"})

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.Equal(t, "development", cfg.Environment)

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordRender(context.Background(), "test", time.Millisecond, 1)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestDashboardMetrics_ExposedOnScrape(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDashboardMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRender(ctx, "http", 5*time.Millisecond, 42)
	metrics.RecordDatasetLoad(ctx, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "dashboard_renders_total")
	assert.Contains(t, body, "dataset_loads_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestDashboardMetrics_NilSafe(t *testing.T) {
	var m *DashboardMetrics
	assert.NotPanics(t, func() {
		m.RecordRender(context.Background(), "http", time.Second, 0)
		m.RecordDatasetLoad(context.Background(), assert.AnError)
	})
}

func TestTraceIDFromContext_NoSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
