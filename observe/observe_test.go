package observe

import (
	"context"
	"strings"
	"testing"
)

// TestConfigValidate covers the accept/reject matrix for observer configs.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string // empty means valid
	}{
		{
			name: "fully enabled valid",
			cfg: Config{
				ServiceName: "warden",
				Version:     "1.0.0",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
		{
			name: "all disabled valid",
			cfg:  Config{ServiceName: "warden"},
		},
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: "service name",
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "warden",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: "unknown tracing exporter",
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "warden",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: "unknown metrics exporter",
		},
		{
			name: "sample percentage too high",
			cfg: Config{
				ServiceName: "warden",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5},
			},
			wantErr: "sample percentage",
		},
		{
			name: "sample percentage negative",
			cfg: Config{
				ServiceName: "warden",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: -0.1},
			},
			wantErr: "sample percentage",
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "warden",
				Logging:     LoggingConfig{Enabled: true, Level: "trace"},
			},
			wantErr: "unknown log level",
		},
		{
			name: "disabled subsystems skip validation",
			cfg: Config{
				ServiceName: "warden",
				Tracing:     TracingConfig{Enabled: false, Exporter: "jaeger"},
				Metrics:     MetricsConfig{Enabled: false, Exporter: "statsd"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestNewObserver_DisabledIsNoop verifies an all-disabled config still
// returns a usable observer.
func TestNewObserver_DisabledIsNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "warden"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer (noop)")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter (noop)")
	}
	if obs.Logger() == nil {
		t.Error("expected non-nil logger (noop)")
	}
	if obs.Metrics() == nil {
		t.Error("expected non-nil metrics (noop)")
	}

	// Noop metrics must accept recordings without a provider behind them.
	obs.Metrics().RecordRetry(context.Background(), "fetch-media", "media")
	obs.Metrics().RecordComponentDelta(context.Background(), 1)

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

// TestNewObserver_InvalidConfig verifies construction fails on an invalid
// config before any provider is installed.
func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if err == nil {
		t.Fatal("NewObserver() error = nil, want validation failure")
	}
}

// TestNewObserver_EnabledStack verifies the full stack comes up against the
// stdout exporters.
func TestNewObserver_EnabledStack(t *testing.T) {
	cfg := Config{
		ServiceName: "warden",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	if obs.Tracer() == nil {
		t.Error("expected non-nil tracer")
	}
	if obs.Meter() == nil {
		t.Error("expected non-nil meter")
	}
	if obs.Metrics() == nil {
		t.Error("expected metrics backed by the configured meter")
	}
}

// TestObserver_ShutdownIdempotent verifies Shutdown can be called twice.
func TestObserver_ShutdownIdempotent(t *testing.T) {
	cfg := Config{
		ServiceName: "warden",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("first Shutdown() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
