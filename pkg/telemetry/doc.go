// Package telemetry groups the observability packages of prometools.
//
// # Components
//
//   - logging: structured logging over log/slog with run context fields
//   - metrics: the Collector that owns the registry, request families,
//     build info and render bookkeeping
//   - tracing: OpenTelemetry spans around each render
package telemetry
