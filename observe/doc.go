// Package observe provides the telemetry primitives used by the resilience
// and lifecycle packages: structured logging, OpenTelemetry metrics for
// retries, circuit transitions, and component counts, and spans around
// resilient calls.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers construct an Observer at process start
// and hand its Logger and Metrics to the resilience registry and the
// lifecycle manager.
package observe
