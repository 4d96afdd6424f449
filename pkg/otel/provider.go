// Package otel wires opt-in OpenTelemetry tracing.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	EnvEndpoint = "TALEFORGE_OTEL_ENDPOINT"
	EnvEnabled  = "TALEFORGE_OTEL_ENABLED"
)

// Narrator call spans.
const (
	SpanLLMComplete = "llm.complete"

	AttrProvider       = attribute.Key("llm.provider")
	AttrAttempt        = attribute.Key("llm.attempt")
	AttrMessages       = attribute.Key("llm.messages")
	AttrResponseLength = attribute.Key("llm.response_length")
)

// Setup initialises tracing for the given service.
//
// When TALEFORGE_OTEL_ENDPOINT is empty or TALEFORGE_OTEL_ENABLED is "false",
// Setup returns a no-op shutdown and leaves the global no-op provider in place.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvEnabled), "false") {
		return noop, nil
	}

	endpoint := os.Getenv(EnvEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	return Install(ctx, serviceName, exporter)
}

// Install registers a global tracer provider that batches spans to exporter.
// The returned shutdown flushes pending spans.
func Install(ctx context.Context, serviceName string, exporter sdktrace.SpanExporter) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// TracerFrom returns the named tracer from tp, or from the global provider
// when tp is nil.
func TracerFrom(tp trace.TracerProvider, name string) trace.Tracer {
	if tp == nil {
		return Tracer(name)
	}
	return tp.Tracer(name)
}
