package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unidash/internal/dataset"
	"unidash/internal/services"
)

type stubSource struct {
	ds *dataset.Dataset
}

func (s stubSource) Load(context.Context) (*dataset.Dataset, error) {
	if s.ds == nil {
		return nil, errors.New("not loaded")
	}
	return s.ds, nil
}

func (s stubSource) Cached() (*dataset.Dataset, bool) { return s.ds, s.ds != nil }

func (s stubSource) Path() string { return "university_student_data.csv" }

func newHealthHandler(src stubSource) *HealthHandler {
	logger := discardLogger()
	return NewHealthHandler(services.NewHealthService("1.2.3", "", src, nil, logger), logger)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		source     stubSource
		wantCode   int
		wantStatus string
	}{
		{
			name:       "dataset loaded",
			source:     stubSource{ds: dataset.New("university_student_data.csv", nil, nil)},
			wantCode:   http.StatusOK,
			wantStatus: services.StatusReady,
		},
		{
			name:       "dataset missing",
			source:     stubSource{},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: services.StatusNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthHandler(tt.source)
			w := httptest.NewRecorder()
			h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var got services.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Contains(t, got.Services, "dataset")
		})
	}
}

func TestHealthHandler_Endpoints(t *testing.T) {
	h := newHealthHandler(stubSource{})

	w := httptest.NewRecorder()
	h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	h.LivenessCheck(w, httptest.NewRequest(http.MethodGet, "/api/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"alive"`)

	w = httptest.NewRecorder()
	h.Version(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	var version map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &version))
	assert.Equal(t, "1.2.3", version["version"])
}
