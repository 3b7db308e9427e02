package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthService_HealthAndLiveness(t *testing.T) {
	hs := NewHealthService("1.2.3", "", nil, nil, discardLogger())

	health := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
	assert.Contains(t, live.Runtime, "go_version")
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*MockDatasetSource)
		wantStatus string
		wantMsg    string
	}{
		{
			name: "dataset loaded",
			setup: func(m *MockDatasetSource) {
				m.On("Cached").Return(testDataset(), true)
			},
			wantStatus: StatusReady,
			wantMsg:    "2 rows loaded from students.csv",
		},
		{
			name: "dataset not loaded",
			setup: func(m *MockDatasetSource) {
				m.On("Cached").Return(nil, false)
				m.On("Path").Return("students.csv")
			},
			wantStatus: StatusNotReady,
			wantMsg:    "dataset not loaded: students.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockDatasetSource)
			tt.setup(source)
			sessions := new(MockSessionCounter)
			sessions.On("ClientCount").Return(3)

			hs := NewHealthService("1.0.0", "", source, sessions, discardLogger())
			status := hs.ReadinessCheck(context.Background())

			assert.Equal(t, tt.wantStatus, status.Status)
			dataset, ok := status.Services["dataset"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, dataset.Message)

			ws, ok := status.Services["websocket"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, "3 open sessions", ws.Message)

			source.AssertExpectations(t)
		})
	}
}

func TestHealthService_ReadinessWithoutSource(t *testing.T) {
	hs := NewHealthService("1.0.0", "", nil, nil, nil)
	assert.Equal(t, StatusNotReady, hs.ReadinessCheck(context.Background()).Status)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthService("1.0.0", "2026-01-01T00:00:00Z", nil, nil, discardLogger())

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
	assert.Contains(t, v, "go_version")

	noBuild := NewHealthService("1.0.0", "", nil, nil, discardLogger()).Version()
	assert.NotContains(t, noBuild, "build_time")
}
