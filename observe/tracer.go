package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CallMeta describes one resilient outbound call for telemetry purposes.
type CallMeta struct {
	Operation string // logical operation name (required)
	Key       string // circuit breaker key (optional)
	Category  string // dependency category (optional)
}

// SpanName returns the deterministic span name for this call.
// Format: warden.exec.<operation>
func (m CallMeta) SpanName() string {
	return "warden.exec." + m.Operation
}

// Tracer wraps OpenTelemetry tracing with call-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndCall must be best-effort and must not panic.
type Tracer interface {
	// StartCall starts a span for a resilient outbound call.
	StartCall(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndCall ends the span, recording any error.
	EndCall(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartCall starts a new span with the call metadata as attributes.
func (t *tracerImpl) StartCall(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("warden.operation", meta.Operation),
	}
	if meta.Key != "" {
		attrs = append(attrs, attribute.String("warden.key", meta.Key))
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("warden.category", meta.Category))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

// EndCall records the outcome and ends the span.
func (t *tracerImpl) EndCall(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("warden.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
