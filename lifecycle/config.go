package lifecycle

import (
	"errors"
	"time"

	"github.com/relayops/warden/observe"
)

// Config configures a component lifecycle manager.
type Config struct {
	// Lifetime is how long a component lives from creation. Required.
	Lifetime time.Duration

	// WarningOffset is how long before expiry the warning fires. Must be
	// less than Lifetime.
	WarningOffset time.Duration

	// MaxPerUser caps components per owner. Must not exceed MaxGlobal.
	MaxPerUser int

	// MaxGlobal caps components across all owners.
	MaxGlobal int

	// CleanupInterval is how often the background sweep runs.
	CleanupInterval time.Duration

	// GracePeriod is how long an expired record is kept before removal.
	// Must be less than CleanupInterval.
	GracePeriod time.Duration

	// Logger receives sweep and cleanup logs. Nil disables logging.
	Logger observe.Logger

	// Metrics records component counts, cleanups, and sweeps. Nil disables
	// metrics.
	Metrics observe.Metrics

	// Now overrides the clock, for tests. Default: time.Now.
	Now func() time.Time
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Lifetime <= 0 {
		return errors.New("lifecycle: lifetime must be positive")
	}
	if c.WarningOffset < 0 || c.WarningOffset >= c.Lifetime {
		return errors.New("lifecycle: warning offset must be shorter than lifetime")
	}
	if c.MaxPerUser <= 0 || c.MaxGlobal <= 0 {
		return errors.New("lifecycle: concurrency caps must be positive")
	}
	if c.MaxPerUser > c.MaxGlobal {
		return errors.New("lifecycle: per-user cap must not exceed global cap")
	}
	if c.CleanupInterval <= 0 {
		return errors.New("lifecycle: cleanup interval must be positive")
	}
	if c.GracePeriod < 0 || c.GracePeriod >= c.CleanupInterval {
		return errors.New("lifecycle: grace period must be shorter than cleanup interval")
	}
	return nil
}
