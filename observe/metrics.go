package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records resilience and lifecycle events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; never block the caller's hot path.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRetry records one retry of an operation.
	RecordRetry(ctx context.Context, operation, category string)

	// RecordCircuitTransition records a circuit state change.
	RecordCircuitTransition(ctx context.Context, key, from, to string)

	// RecordCircuitRejection records a fast-fail while a circuit is open.
	RecordCircuitRejection(ctx context.Context, key string)

	// RecordComponentDelta adjusts the active-component gauge.
	RecordComponentDelta(ctx context.Context, delta int64)

	// RecordCleanup records a component removal with its reason.
	RecordCleanup(ctx context.Context, reason string)

	// RecordSweep records one lifecycle sweep pass.
	RecordSweep(ctx context.Context, duration time.Duration, swept int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	retries       metric.Int64Counter
	transitions   metric.Int64Counter
	rejections    metric.Int64Counter
	components    metric.Int64UpDownCounter
	cleanups      metric.Int64Counter
	sweepDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	retries, err := meter.Int64Counter(
		"warden.retry.attempts",
		metric.WithDescription("Number of retried operation attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"warden.circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		"warden.circuit.rejections",
		metric.WithDescription("Calls rejected by an open circuit"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	components, err := meter.Int64UpDownCounter(
		"warden.component.active",
		metric.WithDescription("Ephemeral components currently tracked"),
		metric.WithUnit("{component}"),
	)
	if err != nil {
		return nil, err
	}

	cleanups, err := meter.Int64Counter(
		"warden.component.cleanups",
		metric.WithDescription("Component removals by reason"),
		metric.WithUnit("{cleanup}"),
	)
	if err != nil {
		return nil, err
	}

	sweepDuration, err := meter.Float64Histogram(
		"warden.sweep.duration_ms",
		metric.WithDescription("Lifecycle sweep duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		retries:       retries,
		transitions:   transitions,
		rejections:    rejections,
		components:    components,
		cleanups:      cleanups,
		sweepDuration: sweepDuration,
	}, nil
}

func (m *metricsImpl) RecordRetry(ctx context.Context, operation, category string) {
	m.retries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("category", category),
	))
}

func (m *metricsImpl) RecordCircuitTransition(ctx context.Context, key, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (m *metricsImpl) RecordCircuitRejection(ctx context.Context, key string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
	))
}

func (m *metricsImpl) RecordComponentDelta(ctx context.Context, delta int64) {
	m.components.Add(ctx, delta)
}

func (m *metricsImpl) RecordCleanup(ctx context.Context, reason string) {
	m.cleanups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *metricsImpl) RecordSweep(ctx context.Context, duration time.Duration, swept int) {
	m.sweepDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.Int("swept", swept),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordRetry(context.Context, string, string)                {}
func (noopMetrics) RecordCircuitTransition(context.Context, string, string, string) {}
func (noopMetrics) RecordCircuitRejection(context.Context, string)             {}
func (noopMetrics) RecordComponentDelta(context.Context, int64)                {}
func (noopMetrics) RecordCleanup(context.Context, string)                      {}
func (noopMetrics) RecordSweep(context.Context, time.Duration, int)            {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics {
	return noopMetrics{}
}
