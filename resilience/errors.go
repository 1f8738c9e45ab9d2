package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations. Typed errors below unwrap to
// these so callers can match with errors.Is without holding the concrete
// type.
var (
	// ErrCircuitOpen is returned when a circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an operation exceeds its hard timeout.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// ErrorType identifies the failure class assigned by Classify.
type ErrorType int

const (
	// ErrorUnknown is an unrecognized error shape. Never retried.
	ErrorUnknown ErrorType = iota
	// ErrorTransientNetwork is a network-level failure (connection reset,
	// DNS failure, connect timeout).
	ErrorTransientNetwork
	// ErrorServer is an HTTP 5xx response.
	ErrorServer
	// ErrorClient is an HTTP 4xx response other than 429. Never retried.
	ErrorClient
	// ErrorRateLimit is an HTTP 429 response, possibly with a retry-after hint.
	ErrorRateLimit
	// ErrorTimeout is a hard timeout imposed by the retry executor.
	ErrorTimeout
	// ErrorCircuitOpen is a fast rejection by an open circuit breaker.
	ErrorCircuitOpen
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTransientNetwork:
		return "transient_network"
	case ErrorServer:
		return "server"
	case ErrorClient:
		return "client"
	case ErrorRateLimit:
		return "rate_limit"
	case ErrorTimeout:
		return "timeout"
	case ErrorCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Severity grades how alarming a classified failure is.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "low"
	}
}

// Category names the kind of dependency an error came from. It is declared
// by the caller and carried through classification so downstream handlers
// can tell a media-catalog failure from a completion-service failure.
type Category string

const (
	CategoryMedia      Category = "media"
	CategoryCompletion Category = "completion"
	CategoryRender     Category = "render"
	CategoryChat       Category = "chat"
)

// Classification is the structured verdict on a raw error. It is an
// immutable value produced fresh per call; callers must not rely on
// identity.
type Classification struct {
	// Type is the failure class.
	Type ErrorType

	// Category is the caller-declared dependency category.
	Category Category

	// Severity grades the failure.
	Severity Severity

	// Retryable reports whether a retry could plausibly succeed.
	Retryable bool

	// RetryAfter is a server-supplied hint for the next attempt, zero when
	// absent. Only rate-limit responses carry one.
	RetryAfter time.Duration
}

// TimeoutError is returned when an operation exceeds the hard timeout
// configured on the retry executor. The underlying operation may still
// complete later; its result is discarded.
type TimeoutError struct {
	// Timeout is the limit that was exceeded.
	Timeout time.Duration
}

// Error returns the timeout message.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %dms", e.Timeout.Milliseconds())
}

// Unwrap returns ErrTimeout so errors.Is(err, ErrTimeout) matches.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// CircuitOpenError is returned when a call is rejected because the circuit
// for its key is open. The wrapped operation was never invoked.
type CircuitOpenError struct {
	// Key is the logical operation name whose circuit is open.
	Key string
}

// Error returns the rejection message.
func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker is open for %s", e.Key)
}

// Unwrap returns ErrCircuitOpen so errors.Is(err, ErrCircuitOpen) matches.
func (e *CircuitOpenError) Unwrap() error {
	return ErrCircuitOpen
}

// APIError is the raw error shape surfaced by HTTP and chat-platform
// clients: a status code, an optional platform-specific numeric code, and
// an optional retry-after hint. Collaborators construct these; this
// package only consumes them.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// Code is the platform-specific numeric error code, zero when absent.
	Code int

	// Message is the human-readable message from the response body.
	Message string

	// RetryAfter is the server-supplied backoff hint, zero when absent.
	RetryAfter time.Duration
}

// Error returns the API error message.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api error %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus returns the HTTP status code.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// RetryAfterHint returns the server-supplied backoff hint.
func (e *APIError) RetryAfterHint() time.Duration {
	return e.RetryAfter
}
