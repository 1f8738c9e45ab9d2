package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envPrefix is the namespace for all override variables.
const envPrefix = "WARDEN"

// ApplyEnv overlays environment variables onto the registry. Variables are
// named WARDEN_<PROFILE>_<FIELD>, durations in milliseconds:
//
//	WARDEN_MEDIA_MAX_ATTEMPTS=5
//	WARDEN_CHAT_TIMEOUT_MS=5000
//	WARDEN_COMPLETION_JITTER=false
//	WARDEN_COMPONENT_LIFETIME_MS=900000
//	WARDEN_COMPONENT_MAX_PER_USER=5
//
// Unset variables leave the profile value unchanged. A malformed value is
// an error, not a silent fallback.
func (r *Registry) ApplyEnv() error {
	return r.applyEnv(os.LookupEnv)
}

func (r *Registry) applyEnv(lookup func(string) (string, bool)) error {
	for name, cfg := range r.retries {
		prefix := envPrefix + "_" + strings.ToUpper(name) + "_"

		if err := overrideInt(lookup, prefix+"MAX_ATTEMPTS", &cfg.MaxAttempts); err != nil {
			return err
		}
		if err := overrideDuration(lookup, prefix+"BASE_DELAY_MS", &cfg.BaseDelay); err != nil {
			return err
		}
		if err := overrideDuration(lookup, prefix+"MAX_DELAY_MS", &cfg.MaxDelay); err != nil {
			return err
		}
		if err := overrideFloat(lookup, prefix+"MULTIPLIER", &cfg.Multiplier); err != nil {
			return err
		}
		if err := overrideBool(lookup, prefix+"JITTER", &cfg.Jitter); err != nil {
			return err
		}
		if err := overrideDuration(lookup, prefix+"TIMEOUT_MS", &cfg.Timeout); err != nil {
			return err
		}

		r.retries[name] = cfg
	}

	prefix := envPrefix + "_" + strings.ToUpper(Component) + "_"
	if err := overrideDuration(lookup, prefix+"LIFETIME_MS", &r.component.Lifetime); err != nil {
		return err
	}
	if err := overrideDuration(lookup, prefix+"WARNING_OFFSET_MS", &r.component.WarningOffset); err != nil {
		return err
	}
	if err := overrideInt(lookup, prefix+"MAX_PER_USER", &r.component.MaxPerUser); err != nil {
		return err
	}
	if err := overrideInt(lookup, prefix+"MAX_GLOBAL", &r.component.MaxGlobal); err != nil {
		return err
	}
	if err := overrideDuration(lookup, prefix+"CLEANUP_INTERVAL_MS", &r.component.CleanupInterval); err != nil {
		return err
	}
	if err := overrideDuration(lookup, prefix+"GRACE_PERIOD_MS", &r.component.GracePeriod); err != nil {
		return err
	}

	return r.component.Validate()
}

func overrideInt(lookup func(string) (string, bool), key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("profile: %s: %q is not an integer", key, raw)
	}
	*dst = v
	return nil
}

func overrideFloat(lookup func(string) (string, bool), key string, dst *float64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("profile: %s: %q is not a number", key, raw)
	}
	*dst = v
	return nil
}

func overrideBool(lookup func(string) (string, bool), key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("profile: %s: %q is not a boolean", key, raw)
	}
	*dst = v
	return nil
}

func overrideDuration(lookup func(string) (string, bool), key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return fmt.Errorf("profile: %s: %q is not a millisecond count", key, raw)
	}
	*dst = time.Duration(ms) * time.Millisecond
	return nil
}
