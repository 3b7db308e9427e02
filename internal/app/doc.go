// Package app wires the dashboard server together: configuration, logging,
// OpenTelemetry, the dataset loader, services, the chi router and the HTTP
// server.
//
// The dataset is loaded once in NewApplication. A missing file or a missing
// required column aborts startup; every later request renders against the
// same read-only dataset.
//
// Run blocks until SIGINT or SIGTERM and then shuts down gracefully:
// in-flight requests complete, WebSocket sessions are closed and telemetry
// is flushed. Errors are returned to the caller; the package never exits
// the process itself.
package app
