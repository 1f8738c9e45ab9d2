package profile

import (
	"fmt"
	"time"

	"github.com/relayops/warden/lifecycle"
	"github.com/relayops/warden/resilience"
)

// Names of the built-in service profiles.
const (
	Media      = "media"
	Completion = "completion"
	Render     = "render"
	Chat       = "chat"
	Component  = "component"
)

// Registry holds the named retry profiles for each collaborating service
// and the component lifecycle profile. It is a plain value object; apply
// env overrides once at process start with Load.
type Registry struct {
	retries   map[string]resilience.RetryConfig
	component lifecycle.Config
}

// Defaults returns the built-in profiles. Each external dependency gets
// its own backoff and timeout settings: completions are slow but rarely
// worth many retries, the chat API is fast and rate-limit-prone.
func Defaults() *Registry {
	return &Registry{
		retries: map[string]resilience.RetryConfig{
			Media: {
				MaxAttempts: 3,
				BaseDelay:   time.Second,
				MaxDelay:    30 * time.Second,
				Multiplier:  2.0,
				Jitter:      true,
				Timeout:     10 * time.Second,
				Category:    resilience.CategoryMedia,
			},
			Completion: {
				MaxAttempts: 2,
				BaseDelay:   2 * time.Second,
				MaxDelay:    30 * time.Second,
				Multiplier:  2.0,
				Jitter:      true,
				Timeout:     2 * time.Minute,
				Category:    resilience.CategoryCompletion,
			},
			Render: {
				MaxAttempts: 2,
				BaseDelay:   500 * time.Millisecond,
				MaxDelay:    5 * time.Second,
				Multiplier:  2.0,
				Jitter:      true,
				Timeout:     30 * time.Second,
				Category:    resilience.CategoryRender,
			},
			Chat: {
				MaxAttempts: 3,
				BaseDelay:   250 * time.Millisecond,
				MaxDelay:    5 * time.Second,
				Multiplier:  2.0,
				Jitter:      true,
				Timeout:     15 * time.Second,
				Category:    resilience.CategoryChat,
			},
		},
		component: lifecycle.Config{
			Lifetime:        15 * time.Minute,
			WarningOffset:   2 * time.Minute,
			MaxPerUser:      3,
			MaxGlobal:       100,
			CleanupInterval: time.Minute,
			GracePeriod:     30 * time.Second,
		},
	}
}

// Load returns the default profiles with environment overrides applied.
func Load() (*Registry, error) {
	r := Defaults()
	if err := r.ApplyEnv(); err != nil {
		return nil, err
	}
	return r, nil
}

// Retry returns the retry profile for the named service.
func (r *Registry) Retry(name string) (resilience.RetryConfig, error) {
	cfg, ok := r.retries[name]
	if !ok {
		return resilience.RetryConfig{}, fmt.Errorf("profile: unknown service %q", name)
	}
	return cfg, nil
}

// Component returns the lifecycle profile.
func (r *Registry) Component() lifecycle.Config {
	return r.component
}

// SetRetry registers or replaces the retry profile for a service.
func (r *Registry) SetRetry(name string, cfg resilience.RetryConfig) {
	r.retries[name] = cfg
}

// Services returns the names of the registered retry profiles.
func (r *Registry) Services() []string {
	names := make([]string, 0, len(r.retries))
	for name := range r.retries {
		names = append(names, name)
	}
	return names
}
