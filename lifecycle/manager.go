package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relayops/warden/observe"
)

// Manager tracks ephemeral per-user components: admission against
// concurrency caps, time-based state transitions, and periodic sweep of
// expired records. It is an explicit object owning its maps; construct one
// per process (or per test) rather than sharing package state.
type Manager struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*Record
	perUser map[string]int
	global  int
	reasons map[Reason]int64
	warnFns []func(Record)

	stopCh  chan struct{}
	started bool
}

// New creates a component lifecycle manager. The config must satisfy the
// invariants checked by Validate.
func New(config Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Manager{
		config:  config,
		now:     config.Now,
		records: make(map[string]*Record),
		perUser: make(map[string]int),
		reasons: make(map[Reason]int64),
	}, nil
}

// Create admits a new component for owner. The admission check and counter
// increment are one atomic step under the manager lock. It fails with
// *LimitError when the owner's cap or the global cap is already full.
func (m *Manager) Create(owner string) (Record, error) {
	return m.CreateWithDeadline(owner, time.Time{})
}

// CreateWithDeadline admits a component whose expiry is additionally capped
// at notAfter, used to bound a component to its session token's remaining
// lifetime. A zero notAfter applies the configured lifetime unchanged.
func (m *Manager) CreateWithDeadline(owner string, notAfter time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Per-user cap first: a user at their own cap should see "per-user"
	// even when the global cap is also full.
	if m.perUser[owner] >= m.config.MaxPerUser {
		return Record{}, &LimitError{Scope: ScopePerUser, Owner: owner, Limit: m.config.MaxPerUser}
	}
	if m.global >= m.config.MaxGlobal {
		return Record{}, &LimitError{Scope: ScopeGlobal, Owner: owner, Limit: m.config.MaxGlobal}
	}

	now := m.now()
	expiresAt := now.Add(m.config.Lifetime)
	if !notAfter.IsZero() && notAfter.Before(expiresAt) {
		expiresAt = notAfter
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Owner:     owner,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		State:     StateActive,
	}
	m.records[rec.ID] = rec
	m.perUser[owner]++
	m.global++

	if m.config.Metrics != nil {
		m.config.Metrics.RecordComponentDelta(context.Background(), 1)
	}
	if m.config.Logger != nil {
		m.config.Logger.Debug(context.Background(), "component created",
			observe.Field{Key: "component_id", Value: rec.ID},
			observe.Field{Key: "owner", Value: owner},
			observe.Field{Key: "expires_at", Value: expiresAt},
		)
	}

	return *rec, nil
}

// Get returns a snapshot of the component, and false if it is unknown or
// already cleaned.
func (m *Manager) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// OnExpiryWarning registers a callback fired once per record when it enters
// the warning state. Callbacks run during the sweep, outside the manager
// lock; a panicking callback is recovered and logged.
func (m *Manager) OnExpiryWarning(fn func(Record)) {
	m.mu.Lock()
	m.warnFns = append(m.warnFns, fn)
	m.mu.Unlock()
}

// Cleanup removes the component immediately, bypassing the grace period.
// It is idempotent: cleaning an unknown or already-cleaned id is a no-op,
// so a manual cleanup racing the sweep is harmless. Counters decrement
// exactly once per record.
func (m *Manager) Cleanup(id string, reason Reason) {
	m.mu.Lock()
	rec, ok := m.records[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	m.removeLocked(rec, reason)
	m.mu.Unlock()

	if m.config.Metrics != nil {
		m.config.Metrics.RecordCleanup(context.Background(), string(reason))
		m.config.Metrics.RecordComponentDelta(context.Background(), -1)
	}
	if m.config.Logger != nil {
		m.config.Logger.Debug(context.Background(), "component cleaned",
			observe.Field{Key: "component_id", Value: id},
			observe.Field{Key: "reason", Value: string(reason)},
		)
	}
}

// removeLocked deletes the record and decrements the counters. Presence in
// the map implies the record is still counted.
func (m *Manager) removeLocked(rec *Record, reason Reason) {
	rec.State = StateCleaned
	delete(m.records, rec.ID)
	m.perUser[rec.Owner]--
	if m.perUser[rec.Owner] <= 0 {
		delete(m.perUser, rec.Owner)
	}
	m.global--
	m.reasons[reason]++
}

// Start launches the recurring sweep. It returns immediately; the sweep
// runs every CleanupInterval until Stop is called or ctx is cancelled.
// Starting an already-started manager is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.config.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweepSafe(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the recurring sweep. Records are left in place; use Shutdown
// to also remove them.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.started {
		close(m.stopCh)
		m.started = false
	}
	m.mu.Unlock()
}

// Shutdown stops the sweep and removes every remaining component with
// reason system_shutdown.
func (m *Manager) Shutdown() {
	m.Stop()

	m.mu.Lock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Cleanup(id, ReasonShutdown)
	}
}

// sweepSafe runs one sweep pass, recovering a panic so a bad cycle never
// kills the ticker goroutine.
func (m *Manager) sweepSafe(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil && m.config.Logger != nil {
			m.config.Logger.Error(ctx, "sweep panicked",
				observe.Field{Key: "panic", Value: r},
			)
		}
	}()
	m.Sweep(m.now())
}

// Sweep ages every record as of now: active records inside the warning
// window transition to warning (firing the registered callbacks once),
// records past expiry transition to expired, and records expired for at
// least GracePeriod are removed. It is exported so tests can drive a
// simulated clock deterministically.
//
// Returns the number of records removed.
func (m *Manager) Sweep(now time.Time) int {
	start := m.now()

	m.mu.Lock()

	var warned []Record
	var removed []Record

	for _, rec := range m.records {
		if rec.State == StateActive && !now.Before(rec.ExpiresAt.Add(-m.config.WarningOffset)) && rec.WarnedAt.IsZero() {
			rec.WarnedAt = now
			rec.State = StateWarning
			warned = append(warned, *rec)
		}
		if rec.State != StateExpired && !now.Before(rec.ExpiresAt) {
			rec.State = StateExpired
		}
		if rec.State == StateExpired && !now.Before(rec.ExpiresAt.Add(m.config.GracePeriod)) {
			removed = append(removed, *rec)
		}
	}

	for i := range removed {
		if rec, ok := m.records[removed[i].ID]; ok {
			m.removeLocked(rec, ReasonTimeout)
		}
	}

	m.mu.Unlock()

	ctx := context.Background()

	// Callbacks run outside the lock; one failing record must not abort
	// the others.
	m.mu.Lock()
	fns := make([]func(Record), len(m.warnFns))
	copy(fns, m.warnFns)
	m.mu.Unlock()

	for _, rec := range warned {
		for _, fn := range fns {
			m.fireWarning(ctx, fn, rec)
		}
	}

	if m.config.Metrics != nil {
		for range removed {
			m.config.Metrics.RecordCleanup(ctx, string(ReasonTimeout))
			m.config.Metrics.RecordComponentDelta(ctx, -1)
		}
		m.config.Metrics.RecordSweep(ctx, m.now().Sub(start), len(removed))
	}
	if m.config.Logger != nil && (len(warned) > 0 || len(removed) > 0) {
		m.config.Logger.Debug(ctx, "sweep completed",
			observe.Field{Key: "warned", Value: len(warned)},
			observe.Field{Key: "removed", Value: len(removed)},
		)
	}

	return len(removed)
}

func (m *Manager) fireWarning(ctx context.Context, fn func(Record), rec Record) {
	defer func() {
		if r := recover(); r != nil && m.config.Logger != nil {
			m.config.Logger.Error(ctx, "expiry warning callback panicked",
				observe.Field{Key: "component_id", Value: rec.ID},
				observe.Field{Key: "panic", Value: r},
			)
		}
	}()
	fn(rec)
}

// Stats is a consistent cross-record snapshot.
type Stats struct {
	// Active, Warning, and Expired count records by state.
	Active  int
	Warning int
	Expired int

	// Global is the total number of counted components.
	Global int

	// PerUser maps owners to their component counts.
	PerUser map[string]int

	// Cleanups counts removals by reason over the manager's lifetime.
	Cleanups map[Reason]int64
}

// Stats returns a snapshot taken under the manager lock, so no record is
// observed mid-transition.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Global:   m.global,
		PerUser:  make(map[string]int, len(m.perUser)),
		Cleanups: make(map[Reason]int64, len(m.reasons)),
	}
	for owner, n := range m.perUser {
		s.PerUser[owner] = n
	}
	for reason, n := range m.reasons {
		s.Cleanups[reason] = n
	}
	for _, rec := range m.records {
		switch rec.State {
		case StateActive:
			s.Active++
		case StateWarning:
			s.Warning++
		case StateExpired:
			s.Expired++
		}
	}
	return s
}
