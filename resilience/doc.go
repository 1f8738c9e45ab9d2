// Package resilience protects callers from cascading failures when invoking
// unreliable external dependencies.
//
// This package implements the outbound-call path used by every integration
// (media catalog, AI completion, rendering, chat platform): raw errors are
// classified, retryable failures are retried with exponential backoff and
// jitter under a hard per-attempt timeout, and a per-key circuit breaker
// fails fast when a dependency stays unhealthy.
//
// # Components
//
//   - Classify: pure error classification. Maps a raw error plus a declared
//     category to a retryability verdict, severity, and an optional
//     retry-after hint.
//
//   - Retry: bounded attempts with backoff, jitter, and a per-attempt
//     timeout. Retryability is decided by the classifier; the final failure
//     is the original error, never a wrapper.
//
//   - Registry: circuit breakers keyed by logical operation name. A closed
//     circuit passes calls through to the retry executor; five consecutive
//     failures open it; after a cool-down, a single half-open probe decides
//     whether to close it again.
//
// # Usage
//
//	reg := resilience.NewRegistry(resilience.RegistryConfig{
//	    Threshold: 5,
//	    Cooldown:  30 * time.Second,
//	})
//
//	cfg := resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    BaseDelay:   time.Second,
//	    MaxDelay:    30 * time.Second,
//	    Multiplier:  2.0,
//	    Jitter:      true,
//	    Timeout:     10 * time.Second,
//	    Category:    resilience.CategoryMedia,
//	}
//
//	err := reg.Execute(ctx, "media.search", cfg, "searchCatalog", func(ctx context.Context) error {
//	    return mediaClient.Search(ctx, query)
//	})
//	if errors.Is(err, resilience.ErrCircuitOpen) {
//	    // fail over or tell the user to try again later
//	}
//
// All state is in-memory and per-registry; nothing survives a restart.
package resilience
