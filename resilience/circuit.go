package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all calls.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the dependency
	// recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// breaker is the per-key circuit state machine. It is owned by a Registry
// and never exposed directly; all mutation goes through admit/record.
type breaker struct {
	key       string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	// trialInFlight enforces single-flight in half-open: exactly one probe
	// call may run per key; concurrent callers are rejected.
	trialInFlight bool
}

func newBreaker(key string, threshold int, cooldown time.Duration, now func() time.Time) *breaker {
	return &breaker{
		key:       key,
		threshold: threshold,
		cooldown:  cooldown,
		now:       now,
		state:     StateClosed,
	}
}

// admit decides whether a call may proceed. It returns trial=true when the
// call was admitted as the half-open probe; the caller must pass the same
// flag to record.
func (b *breaker) admit() (trial bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateOpen:
		return false, &CircuitOpenError{Key: b.key}
	case StateHalfOpen:
		if b.trialInFlight {
			return false, &CircuitOpenError{Key: b.key}
		}
		b.trialInFlight = true
		return true, nil
	default:
		return false, nil
	}
}

// record applies the outcome of an admitted call.
func (b *breaker) record(trial bool, callErr error) (from, to State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	from = b.state

	if trial {
		b.trialInFlight = false
		if callErr != nil {
			// Probe failed: reopen and restart the cool-down clock.
			b.lastFailure = b.now()
			b.state = StateOpen
		} else {
			b.state = StateClosed
			b.failures = 0
		}
		return from, b.state
	}

	if callErr != nil {
		b.failures++
		b.lastFailure = b.now()
		if b.failures >= b.threshold {
			b.state = StateOpen
		}
	} else {
		b.failures = 0
	}
	return from, b.state
}

// currentStateLocked lazily moves open to half-open once the cool-down
// window has elapsed since the last failure.
func (b *breaker) currentStateLocked() State {
	if b.state == StateOpen && b.now().Sub(b.lastFailure) >= b.cooldown {
		b.state = StateHalfOpen
		b.trialInFlight = false
	}
	return b.state
}

// status returns a consistent snapshot of the breaker.
func (b *breaker) status() BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerStatus{
		State:       b.currentStateLocked(),
		Failures:    b.failures,
		LastFailure: b.lastFailure,
	}
}

// BreakerStatus is a point-in-time snapshot of one circuit.
type BreakerStatus struct {
	// State is the circuit state at snapshot time.
	State State

	// Failures is the consecutive failure count while closed.
	Failures int

	// LastFailure is when the most recent failure was recorded. Zero if the
	// circuit has never failed.
	LastFailure time.Time
}
