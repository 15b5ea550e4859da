package tracing

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Propagator returns the global text map propagator.
func Propagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// EnvCarrier adapts process environment variables to a TextMapCarrier.
// Keys map to upper case variable names, so "traceparent" is read from
// TRACEPARENT.
type EnvCarrier map[string]string

// Get returns the value for key.
func (c EnvCarrier) Get(key string) string {
	return c[envKey(key)]
}

// Set stores value under key.
func (c EnvCarrier) Set(key, value string) {
	c[envKey(key)] = value
}

// Keys lists the carrier keys.
func (c EnvCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, strings.ToLower(k))
	}
	return keys
}

// Environ returns the carrier as KEY=value pairs for exec.Cmd.Env.
func (c EnvCarrier) Environ() []string {
	env := make([]string, 0, len(c))
	for k, v := range c {
		env = append(env, k+"="+v)
	}
	return env
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// ExtractEnv extracts W3C trace context from the TRACEPARENT, TRACESTATE
// and BAGGAGE environment variables so a render started by a traced
// pipeline joins the caller's trace. If none are set, ctx is returned
// unchanged.
func ExtractEnv(ctx context.Context) context.Context {
	carrier := EnvCarrier{}
	for _, field := range Propagator().Fields() {
		if v, ok := os.LookupEnv(envKey(field)); ok {
			carrier.Set(field, v)
		}
	}
	return Extract(ctx, carrier)
}

// Extract extracts trace context from carrier.
func Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return Propagator().Extract(ctx, carrier)
}

// Inject writes the trace context of ctx into carrier.
func Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	Propagator().Inject(ctx, carrier)
}
