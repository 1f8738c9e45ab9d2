package lifecycle_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/relayops/warden/lifecycle"
)

func ExampleManager_Create() {
	mgr, err := lifecycle.New(lifecycle.Config{
		Lifetime:        15 * time.Minute,
		WarningOffset:   2 * time.Minute,
		MaxPerUser:      1,
		MaxGlobal:       10,
		CleanupInterval: time.Minute,
		GracePeriod:     30 * time.Second,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	rec, err := mgr.Create("user-123")
	fmt.Println("created:", err == nil, rec.State)

	// The same owner is already at their cap.
	_, err = mgr.Create("user-123")
	var limitErr *lifecycle.LimitError
	if errors.As(err, &limitErr) {
		fmt.Println("rejected:", limitErr.Scope)
	}
	// Output:
	// created: true active
	// rejected: per-user
}

func ExampleManager_Sweep() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mgr, _ := lifecycle.New(lifecycle.Config{
		Lifetime:        15 * time.Minute,
		WarningOffset:   2 * time.Minute,
		MaxPerUser:      1,
		MaxGlobal:       10,
		CleanupInterval: time.Minute,
		GracePeriod:     30 * time.Second,
		Now:             func() time.Time { return base },
	})

	mgr.OnExpiryWarning(func(rec lifecycle.Record) {
		fmt.Println("expiring soon:", rec.Owner)
	})

	rec, _ := mgr.Create("user-123")

	mgr.Sweep(base.Add(13 * time.Minute))
	got, _ := mgr.Get(rec.ID)
	fmt.Println("state:", got.State)
	// Output:
	// expiring soon: user-123
	// state: warning
}
