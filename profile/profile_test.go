package profile

import (
	"testing"

	"github.com/relayops/warden/resilience"
)

func TestDefaults_AllServicesPresent(t *testing.T) {
	r := Defaults()

	for _, name := range []string{Media, Completion, Render, Chat} {
		cfg, err := r.Retry(name)
		if err != nil {
			t.Fatalf("Retry(%s) error = %v", name, err)
		}
		if cfg.MaxAttempts < 1 {
			t.Errorf("%s: MaxAttempts = %d, want >= 1", name, cfg.MaxAttempts)
		}
		if cfg.MaxDelay < cfg.BaseDelay {
			t.Errorf("%s: MaxDelay %v < BaseDelay %v", name, cfg.MaxDelay, cfg.BaseDelay)
		}
		if cfg.Multiplier < 1 {
			t.Errorf("%s: Multiplier = %f, want >= 1", name, cfg.Multiplier)
		}
		if cfg.Timeout <= 0 {
			t.Errorf("%s: Timeout = %v, want positive", name, cfg.Timeout)
		}
		if cfg.Category == "" {
			t.Errorf("%s: Category is empty", name)
		}
	}
}

func TestDefaults_ComponentConfigValid(t *testing.T) {
	cfg := Defaults().Component()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Component().Validate() error = %v, want nil", err)
	}
}

func TestRegistry_UnknownService(t *testing.T) {
	if _, err := Defaults().Retry("billing"); err == nil {
		t.Error("Retry(billing) error = nil, want unknown service")
	}
}

func TestRegistry_SetRetry(t *testing.T) {
	r := Defaults()
	custom := resilience.RetryConfig{MaxAttempts: 7, Category: resilience.CategoryChat}
	r.SetRetry("webhooks", custom)

	got, err := r.Retry("webhooks")
	if err != nil {
		t.Fatalf("Retry(webhooks) error = %v", err)
	}
	if got.MaxAttempts != 7 {
		t.Errorf("MaxAttempts = %d, want 7", got.MaxAttempts)
	}
}

func TestRegistry_Services(t *testing.T) {
	names := Defaults().Services()
	if len(names) != 4 {
		t.Errorf("Services() = %v, want 4 built-ins", names)
	}
}
