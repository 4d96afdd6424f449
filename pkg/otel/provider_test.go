package otel_test

import (
	"context"
	"sync"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandevgo/taleforge/pkg/otel"
)

// keepingExporter holds exported spans past Shutdown.
type keepingExporter struct {
	mu    sync.Mutex
	spans []sdktrace.ReadOnlySpan
}

func (e *keepingExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, spans...)
	return nil
}

func (e *keepingExporter) Shutdown(ctx context.Context) error { return nil }

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  string
	}{
		{name: "noop when endpoint empty", endpoint: "", enabled: ""},
		{name: "noop when explicitly disabled", endpoint: "http://localhost:4318", enabled: "false"},
		// Non-routable address, nothing is exported.
		{name: "provider when endpoint set", endpoint: "http://192.0.2.1:4318", enabled: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(otel.EnvEndpoint, tt.endpoint)
			t.Setenv(otel.EnvEnabled, tt.enabled)

			shutdown, err := otel.Setup(context.Background(), "taleforge-test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestTracer_NoopSpan(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "")
	_, span := otel.Tracer("test").Start(context.Background(), "op")
	span.End()
}

func TestInstall_ExportsNarratorSpans(t *testing.T) {
	ctx := context.Background()
	exp := &keepingExporter{}

	shutdown, err := otel.Install(ctx, "taleforge-test", exp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := otel.Tracer("taleforge/llm").Start(ctx, otel.SpanLLMComplete, trace.WithAttributes(
		otel.AttrProvider.String("openrouter"),
		otel.AttrAttempt.Int(2),
	))
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}

	if len(exp.spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(exp.spans))
	}
	got := exp.spans[0]
	if got.Name() != otel.SpanLLMComplete {
		t.Errorf("span name = %q, want %q", got.Name(), otel.SpanLLMComplete)
	}

	var provider string
	for _, kv := range got.Attributes() {
		if kv.Key == otel.AttrProvider {
			provider = kv.Value.AsString()
		}
	}
	if provider != "openrouter" {
		t.Errorf("provider attribute = %q, want openrouter", provider)
	}

	var service string
	for _, kv := range got.Resource().Attributes() {
		if kv.Key == semconv.ServiceNameKey {
			service = kv.Value.AsString()
		}
	}
	if service != "taleforge-test" {
		t.Errorf("service.name = %q, want taleforge-test", service)
	}
}

func TestTracerFrom(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := otel.TracerFrom(tp, "test").Start(context.Background(), "op")
	defer span.End()
	if !span.SpanContext().IsValid() {
		t.Error("span from an sdk provider must carry a valid context")
	}

	_, span = otel.TracerFrom(nil, "test").Start(context.Background(), "op")
	span.End()
}
