package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/relayops/warden/observe"
)

// Operation is a unit of work executed under a resilience policy.
type Operation func(ctx context.Context) error

// RetryConfig configures the retry behavior for one collaborating service.
// Each external dependency gets its own profile (see package profile).
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry. Zero is valid and
	// yields an immediate retry.
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries. Raised to BaseDelay when
	// configured lower.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff factor.
	// Default: 2.0. A multiplier of 1 yields constant delay.
	Multiplier float64

	// Jitter replaces each computed delay with a uniformly random value in
	// [0, delay] to avoid synchronized retry storms.
	Jitter bool

	// Timeout is the hard per-attempt limit. Zero disables it. An attempt
	// exceeding it fails with *TimeoutError; the underlying work is
	// abandoned, not cancelled, and a late result is discarded.
	Timeout time.Duration

	// Category is the dependency category passed to the classifier.
	Category Category

	// LogAttempts emits a warn log before each retry when a Logger is set.
	LogAttempts bool

	// Logger receives retry logs. Nil disables logging.
	Logger observe.Logger

	// Metrics records retry attempts. Nil disables metrics.
	Metrics observe.Metrics

	// OnRetry is called before each retry sleep with the 0-based attempt
	// index that just failed.
	OnRetry func(attempt int, err error, delay time.Duration)

	// ClassifyFunc overrides the error classifier.
	// Default: Classify.
	ClassifyFunc func(err error, category Category) Classification
}

// Retry executes operations with bounded attempts and exponential backoff.
// Retryability is decided by the error classifier, not by the caller.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry executor.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay < 0 {
		config.BaseDelay = 0
	}
	if config.Multiplier == 0 {
		config.Multiplier = 2.0
	}
	if config.Multiplier < 1 {
		config.Multiplier = 1
	}
	if config.MaxDelay < config.BaseDelay {
		config.MaxDelay = config.BaseDelay
	}
	if config.ClassifyFunc == nil {
		config.ClassifyFunc = Classify
	}

	return &Retry{config: config}
}

// Execute runs the operation, retrying classified-retryable failures until
// an attempt succeeds or MaxAttempts is exhausted. The final failure is the
// original error from the last attempt, never a wrapper, except that a
// timed-out attempt surfaces as *TimeoutError.
func (r *Retry) Execute(ctx context.Context, name string, op Operation) error {
	for attempt := 0; ; attempt++ {
		err := r.runAttempt(ctx, op)
		if err == nil {
			return nil
		}

		cls := r.config.ClassifyFunc(err, r.config.Category)
		if !cls.Retryable || attempt+1 >= r.config.MaxAttempts {
			return err
		}

		delay := r.delay(attempt, cls)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}
		if r.config.Metrics != nil {
			r.config.Metrics.RecordRetry(ctx, name, string(cls.Category))
		}
		if r.config.LogAttempts && r.config.Logger != nil {
			r.config.Logger.Warn(ctx, "operation failed, retrying",
				observe.Field{Key: "operation", Value: name},
				observe.Field{Key: "category", Value: string(cls.Category)},
				observe.Field{Key: "error_type", Value: cls.Type.String()},
				observe.Field{Key: "attempt", Value: attempt + 1},
				observe.Field{Key: "delay_ms", Value: delay.Milliseconds()},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// runAttempt races the operation against the configured timeout. The done
// channel is buffered so a late result is dropped instead of leaking the
// goroutine or reporting twice.
func (r *Retry) runAttempt(ctx context.Context, op Operation) error {
	if r.config.Timeout <= 0 {
		return op(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(attemptCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// Caller cancelled, not our timer.
			return ctx.Err()
		}
		return &TimeoutError{Timeout: r.config.Timeout}
	}
}

// delay computes min(MaxDelay, BaseDelay * Multiplier^attempt). A server
// retry-after hint replaces the computed value before the cap. With Jitter,
// the result is uniform in [0, delay].
func (r *Retry) delay(attempt int, cls Classification) time.Duration {
	d := time.Duration(float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt)))
	if cls.RetryAfter > 0 {
		d = cls.RetryAfter
	}
	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}
	if r.config.Jitter && d > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d = time.Duration(rand.Int64N(int64(d) + 1))
	}
	return d
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		// Still yield to cancellation between immediate retries.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExecuteWithRetry is a convenience function to run one operation under a
// retry config without constructing a Retry.
func ExecuteWithRetry(ctx context.Context, config RetryConfig, name string, op Operation) error {
	return NewRetry(config).Execute(ctx, name, op)
}
