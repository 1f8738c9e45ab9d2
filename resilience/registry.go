package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/relayops/warden/observe"
)

// RegistryConfig configures a circuit breaker registry.
type RegistryConfig struct {
	// Threshold is the number of consecutive failures that opens a circuit.
	// Default: 5
	Threshold int

	// Cooldown is how long an open circuit rejects calls before admitting a
	// half-open probe.
	// Default: 30 seconds
	Cooldown time.Duration

	// OnStateChange is called after a circuit transitions, outside the
	// circuit's lock.
	OnStateChange func(key string, from, to State)

	// Logger receives state transition logs. Nil disables logging.
	Logger observe.Logger

	// Metrics records transitions and open-circuit rejections. Nil disables
	// metrics.
	Metrics observe.Metrics

	// Now overrides the clock, for tests. Default: time.Now.
	Now func() time.Time
}

// Registry keys circuit breakers by logical operation name and runs every
// call through breaker-then-retry. It is an explicit object: construct one
// per process (or per test) rather than sharing package state.
//
// Keys are never evicted; circuit state lives for the life of the registry.
type Registry struct {
	config RegistryConfig

	mu       sync.Mutex
	breakers map[string]*breaker
}

// NewRegistry creates a new circuit breaker registry.
func NewRegistry(config RegistryConfig) *Registry {
	// Apply defaults
	if config.Threshold <= 0 {
		config.Threshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Registry{
		config:   config,
		breakers: make(map[string]*breaker),
	}
}

// Execute runs the operation under the circuit for key, wrapping it with
// the retry policy in retryConfig. While the circuit is open the operation
// (and the classifier) is never invoked; the call fails fast with
// *CircuitOpenError. One full retry cycle counts as a single success or
// failure against the circuit.
func (g *Registry) Execute(ctx context.Context, key string, retryConfig RetryConfig, name string, op Operation) error {
	b := g.breakerFor(key)

	trial, err := b.admit()
	if err != nil {
		if g.config.Metrics != nil {
			g.config.Metrics.RecordCircuitRejection(ctx, key)
		}
		return err
	}

	callErr := NewRetry(retryConfig).Execute(ctx, name, op)

	from, to := b.record(trial, callErr)
	if from != to {
		g.notifyStateChange(ctx, key, from, to)
	}

	return callErr
}

// Status returns a snapshot of the circuit for key, and false if the key
// has never been executed or was reset.
func (g *Registry) Status(key string) (BreakerStatus, bool) {
	g.mu.Lock()
	b, ok := g.breakers[key]
	g.mu.Unlock()

	if !ok {
		return BreakerStatus{}, false
	}
	return b.status(), true
}

// Reset removes the circuit for key entirely, equivalent to a circuit that
// has never failed. Resetting an unknown key is a no-op.
func (g *Registry) Reset(key string) {
	g.mu.Lock()
	delete(g.breakers, key)
	g.mu.Unlock()
}

// Snapshot returns a consistent view of every known circuit. The registry
// lock is held across the read so no breaker is added or removed mid-read;
// each breaker snapshot is taken under its own lock.
func (g *Registry) Snapshot() map[string]BreakerStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]BreakerStatus, len(g.breakers))
	for key, b := range g.breakers {
		out[key] = b.status()
	}
	return out
}

func (g *Registry) breakerFor(key string) *breaker {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, ok := g.breakers[key]
	if !ok {
		b = newBreaker(key, g.config.Threshold, g.config.Cooldown, g.config.Now)
		g.breakers[key] = b
	}
	return b
}

func (g *Registry) notifyStateChange(ctx context.Context, key string, from, to State) {
	if g.config.OnStateChange != nil {
		g.config.OnStateChange(key, from, to)
	}
	if g.config.Metrics != nil {
		g.config.Metrics.RecordCircuitTransition(ctx, key, from.String(), to.String())
	}
	if g.config.Logger != nil {
		g.config.Logger.Warn(ctx, "circuit state changed",
			observe.Field{Key: "key", Value: key},
			observe.Field{Key: "from", Value: from.String()},
			observe.Field{Key: "to", Value: to.String()},
		)
	}
}
