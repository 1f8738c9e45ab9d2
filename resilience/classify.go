package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"
	"syscall"
	"time"
)

// httpStatuser is the minimal surface an HTTP/chat client error must expose
// for status-based classification. APIError implements it; foreign SDK error
// types can too, without importing this package's concrete types.
type httpStatuser interface {
	HTTPStatus() int
}

// retryAfterHinter exposes a server-supplied backoff hint.
type retryAfterHinter interface {
	RetryAfterHint() time.Duration
}

// Classify maps a raw error and its declared category to a structured
// classification. It is deterministic and side-effect-free: no I/O, no
// logging. Unrecognized error shapes classify as non-retryable so unknown
// failures are never retried blindly.
func Classify(err error, category Category) Classification {
	c := Classification{
		Type:     ErrorUnknown,
		Category: category,
		Severity: SeverityLow,
	}
	if err == nil {
		return c
	}

	// Errors manufactured by this package.
	var te *TimeoutError
	if errors.As(err, &te) || errors.Is(err, context.DeadlineExceeded) {
		c.Type = ErrorTimeout
		c.Severity = SeverityMedium
		c.Retryable = true
		return c
	}
	var coe *CircuitOpenError
	if errors.As(err, &coe) {
		c.Type = ErrorCircuitOpen
		c.Severity = SeverityMedium
		return c
	}
	if errors.Is(err, context.Canceled) {
		return c
	}

	// HTTP-shaped errors, including chat-platform SDK errors that carry a
	// status alongside their numeric code.
	var st httpStatuser
	if errors.As(err, &st) {
		return classifyStatus(st.HTTPStatus(), err, c)
	}

	// Network-level failures.
	if isTransientNetwork(err) {
		c.Type = ErrorTransientNetwork
		c.Severity = SeverityMedium
		c.Retryable = true
		return c
	}

	return c
}

func classifyStatus(status int, err error, c Classification) Classification {
	switch {
	case status == http.StatusTooManyRequests:
		c.Type = ErrorRateLimit
		c.Severity = SeverityMedium
		c.Retryable = true
		var h retryAfterHinter
		if errors.As(err, &h) {
			c.RetryAfter = h.RetryAfterHint()
		}

	case status >= 500 && status <= 599:
		c.Type = ErrorServer
		c.Retryable = true
		// Gateway-class failures indicate the dependency itself is down.
		switch status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			c.Severity = SeverityHigh
		default:
			c.Severity = SeverityMedium
		}

	case status >= 400 && status <= 499:
		// Auth, not-found, validation: retrying cannot help.
		c.Type = ErrorClient
		c.Severity = SeverityLow
	}

	return c
}

func isTransientNetwork(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE)
}
