package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"unidash/internal/dataset"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockDatasetSource is a mock for the DatasetSource interface
type MockDatasetSource struct {
	mock.Mock
}

func (m *MockDatasetSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataset.Dataset), args.Error(1)
}

func (m *MockDatasetSource) Cached() (*dataset.Dataset, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*dataset.Dataset), args.Bool(1)
}

func (m *MockDatasetSource) Path() string {
	return m.Called().String(0)
}

// MockSessionCounter is a mock for the SessionCounter interface
type MockSessionCounter struct {
	mock.Mock
}

func (m *MockSessionCounter) ClientCount() int {
	return m.Called().Int(0)
}
