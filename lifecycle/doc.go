// Package lifecycle bounds the lifetime and concurrency of ephemeral
// per-user interactive components.
//
// Every interactive affordance created in response to a user action is
// registered with a Manager, which enforces per-user and global concurrency
// caps at admission and ages each record through active, warning, expired,
// and cleaned on a recurring sweep. Owners get one expiry warning per
// component, and expired records are removed after a short grace period,
// releasing their slots.
//
// # Usage
//
//	mgr, err := lifecycle.New(lifecycle.Config{
//	    Lifetime:        15 * time.Minute,
//	    WarningOffset:   2 * time.Minute,
//	    MaxPerUser:      3,
//	    MaxGlobal:       100,
//	    CleanupInterval: time.Minute,
//	    GracePeriod:     30 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	mgr.OnExpiryWarning(func(rec lifecycle.Record) {
//	    notifyOwner(rec.Owner, rec.ID)
//	})
//	mgr.Start(ctx)
//	defer mgr.Shutdown()
//
//	rec, err := mgr.Create(userID)
//	var limitErr *lifecycle.LimitError
//	if errors.As(err, &limitErr) {
//	    // tell the user to close an existing panel first
//	}
//
// All state is in-memory and per-manager; nothing survives a restart.
package lifecycle
