// Package profile supplies the per-service resilience and lifecycle
// configuration profiles.
//
// Each collaborating external service (media catalog, AI completion,
// rendering, chat platform) gets its own retry profile, and the component
// lifecycle manager gets one lifecycle profile. Built-in defaults can be
// overridden at process start with WARDEN_<PROFILE>_<FIELD> environment
// variables; durations take millisecond counts.
package profile
