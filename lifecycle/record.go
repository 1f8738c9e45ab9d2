package lifecycle

import "time"

// State represents where a component is in its lifetime. States only move
// forward: active, warning, expired, cleaned.
type State int

const (
	// StateActive means the component is live and usable.
	StateActive State = iota
	// StateWarning means the component is near expiry and its owner has
	// been warned.
	StateWarning
	// StateExpired means the component's lifetime has elapsed; it is kept
	// briefly for diagnostics before removal.
	StateExpired
	// StateCleaned means the component has been removed.
	StateCleaned
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarning:
		return "warning"
	case StateExpired:
		return "expired"
	case StateCleaned:
		return "cleaned"
	default:
		return "unknown"
	}
}

// Reason records why a component was removed.
type Reason string

const (
	// ReasonTimeout is removal by the sweep after expiry plus grace.
	ReasonTimeout Reason = "timeout"
	// ReasonManual is an explicit caller-requested removal.
	ReasonManual Reason = "manual"
	// ReasonCollectorEnd means the owning interaction collector finished.
	ReasonCollectorEnd Reason = "collector_end"
	// ReasonUserLimit is removal of an old component to admit a new one.
	ReasonUserLimit Reason = "user_limit"
	// ReasonShutdown is removal during process shutdown.
	ReasonShutdown Reason = "system_shutdown"
)

// Record is a snapshot of one ephemeral component. The manager owns the
// canonical record; callers always receive copies.
type Record struct {
	// ID uniquely identifies the component.
	ID string

	// Owner is the user the component belongs to.
	Owner string

	// CreatedAt is when the component was admitted.
	CreatedAt time.Time

	// ExpiresAt is when the component's lifetime ends.
	ExpiresAt time.Time

	// WarnedAt is when the expiry warning fired. Zero until then.
	WarnedAt time.Time

	// State is the lifecycle state at snapshot time.
	State State
}
