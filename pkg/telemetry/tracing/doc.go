// Package tracing provides OpenTelemetry tracing for prometools.
//
// # Overview
//
// A Tracer wraps an OpenTelemetry TracerProvider configured from
// config.TracingConfig. When tracing is disabled the tracer is a noop and
// spans cost next to nothing, so callers never branch on Enabled before
// starting a span.
//
// Spans are exported over OTLP gRPC. Tests use NewWithExporter with an
// in-memory exporter from go.opentelemetry.io/otel/sdk/trace/tracetest.
//
// # Spans
//
// The render command opens one span per run:
//
//	ctx, span := tracer.Start(ctx, "prometools.render")
//	defer span.End()
//	tracing.SetRunAttributes(span, runID, trigger)
//
// # Propagation
//
// ExtractEnv reads W3C trace context from the TRACEPARENT and TRACESTATE
// environment variables, so a render launched by a traced CI job becomes a
// child of the job's span. EnvCarrier works in the other direction for
// processes started by prometools.
//
// # Sampling
//
// Three strategies are supported, each wrapped in ParentBased so an
// upstream sampling decision is honored:
//   - always: sample every trace
//   - never: sample nothing
//   - ratio: sample a fraction of trace IDs
package tracing
