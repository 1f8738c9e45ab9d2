package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"
)

// timeoutNetError is a fake net.Error reporting a timeout.
type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func TestClassify_TransientNetwork(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"dns failure", &net.DNSError{Err: "no such host", Name: "api.example.com"}},
		{"connect timeout", timeoutNetError{}},
		{"connection reset", fmt.Errorf("read: %w", syscall.ECONNRESET)},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED)},
		{"broken pipe", fmt.Errorf("write: %w", syscall.EPIPE)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.err, CategoryMedia)
			if c.Type != ErrorTransientNetwork {
				t.Errorf("Type = %v, want transient_network", c.Type)
			}
			if !c.Retryable {
				t.Error("Retryable = false, want true")
			}
			if c.Severity != SeverityMedium {
				t.Errorf("Severity = %v, want medium", c.Severity)
			}
			if c.Category != CategoryMedia {
				t.Errorf("Category = %v, want media", c.Category)
			}
		})
	}
}

func TestClassify_ServerErrors(t *testing.T) {
	tests := []struct {
		status       int
		wantSeverity Severity
	}{
		{500, SeverityMedium},
		{501, SeverityMedium},
		{502, SeverityHigh},
		{503, SeverityHigh},
		{504, SeverityHigh},
	}

	for _, tt := range tests {
		c := Classify(&APIError{StatusCode: tt.status, Message: "boom"}, CategoryRender)
		if c.Type != ErrorServer {
			t.Errorf("status %d: Type = %v, want server", tt.status, c.Type)
		}
		if !c.Retryable {
			t.Errorf("status %d: Retryable = false, want true", tt.status)
		}
		if c.Severity != tt.wantSeverity {
			t.Errorf("status %d: Severity = %v, want %v", tt.status, c.Severity, tt.wantSeverity)
		}
	}
}

func TestClassify_RateLimit(t *testing.T) {
	err := &APIError{StatusCode: 429, Message: "rate limited", RetryAfter: 3 * time.Second}

	c := Classify(err, CategoryChat)
	if c.Type != ErrorRateLimit {
		t.Errorf("Type = %v, want rate_limit", c.Type)
	}
	if !c.Retryable {
		t.Error("Retryable = false, want true")
	}
	if c.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", c.RetryAfter)
	}
}

func TestClassify_RateLimitWithoutHint(t *testing.T) {
	c := Classify(&APIError{StatusCode: 429, Message: "rate limited"}, CategoryChat)
	if c.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v, want 0", c.RetryAfter)
	}
	if !c.Retryable {
		t.Error("Retryable = false, want true")
	}
}

func TestClassify_ClientErrors(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 422} {
		c := Classify(&APIError{StatusCode: status, Message: "nope"}, CategoryMedia)
		if c.Type != ErrorClient {
			t.Errorf("status %d: Type = %v, want client", status, c.Type)
		}
		if c.Retryable {
			t.Errorf("status %d: Retryable = true, want false", status)
		}
		if c.Severity != SeverityLow {
			t.Errorf("status %d: Severity = %v, want low", status, c.Severity)
		}
	}
}

func TestClassify_Timeout(t *testing.T) {
	c := Classify(&TimeoutError{Timeout: 5 * time.Second}, CategoryCompletion)
	if c.Type != ErrorTimeout {
		t.Errorf("Type = %v, want timeout", c.Type)
	}
	if !c.Retryable {
		t.Error("Retryable = false, want true")
	}

	c = Classify(context.DeadlineExceeded, CategoryCompletion)
	if c.Type != ErrorTimeout {
		t.Errorf("deadline exceeded: Type = %v, want timeout", c.Type)
	}
}

func TestClassify_CircuitOpen(t *testing.T) {
	c := Classify(&CircuitOpenError{Key: "media.search"}, CategoryMedia)
	if c.Type != ErrorCircuitOpen {
		t.Errorf("Type = %v, want circuit_open", c.Type)
	}
	if c.Retryable {
		t.Error("Retryable = true, want false")
	}
}

func TestClassify_UnknownShapes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"nil", nil},
		{"plain error", errors.New("something odd")},
		{"cancelled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.err, CategoryChat)
			if c.Type != ErrorUnknown {
				t.Errorf("Type = %v, want unknown", c.Type)
			}
			if c.Retryable {
				t.Error("Retryable = true, want false: unknown shapes must fail closed")
			}
			if c.Severity != SeverityLow {
				t.Errorf("Severity = %v, want low", c.Severity)
			}
		})
	}
}

func TestClassify_ForeignStatusError(t *testing.T) {
	// An SDK error type that exposes a status without using APIError.
	c := Classify(foreignError{status: 503}, CategoryChat)
	if c.Type != ErrorServer {
		t.Errorf("Type = %v, want server", c.Type)
	}
	if !c.Retryable {
		t.Error("Retryable = false, want true")
	}
}

type foreignError struct{ status int }

func (e foreignError) Error() string   { return "upstream failed" }
func (e foreignError) HTTPStatus() int { return e.status }

func TestClassify_IsDeterministic(t *testing.T) {
	err := &APIError{StatusCode: 429, RetryAfter: time.Second}
	first := Classify(err, CategoryChat)
	for i := 0; i < 10; i++ {
		if got := Classify(err, CategoryChat); got != first {
			t.Fatalf("Classify() = %+v, want %+v", got, first)
		}
	}
}
