package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys, namespaced under "prometools.".
const (
	AttrRunID       = "prometools.run_id"
	AttrTrigger     = "prometools.trigger"
	AttrOpenMetrics = "prometools.open_metrics"
	AttrBytes       = "prometools.render.bytes"
	AttrFixtures    = "prometools.render.fixtures"
)

// SetRunAttributes tags a render span with its run id and trigger.
func SetRunAttributes(span trace.Span, runID, trigger string) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.String(AttrTrigger, trigger),
	)
}

// SetRenderAttributes records the outcome of a render on its span.
func SetRenderAttributes(span trace.Span, fixtures int, openMetrics bool, bytes int64) {
	span.SetAttributes(
		attribute.Int(AttrFixtures, fixtures),
		attribute.Bool(AttrOpenMetrics, openMetrics),
		attribute.Int64(AttrBytes, bytes),
	)
}
