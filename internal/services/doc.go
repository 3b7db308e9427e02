// Package services implements the application layer of the dashboard.
// It sits between the HTTP, WebSocket and CLI surfaces and the pure
// pipeline in package dashboard.
//
// # Available Services
//
//	- DashboardService: loads the dataset, runs the render pipeline for a
//	  selection, records render metrics and spans, and exports results
//	- HealthService: liveness, readiness (ready once the dataset is loaded)
//	  and version information
//
// # Error Handling
//
// Load failures are returned as *errors.APIError with status 503 so the
// transport layer can render them as problem responses. Context errors are
// passed through unchanged.
//
// # Testing
//
// Services are tested by mocking the dataset source:
//
//	source := new(MockDatasetSource)
//	source.On("Load", mock.Anything).Return(ds, nil)
//	svc := NewDashboardService(source, nil, logger)
package services
