package lifecycle

import (
	"errors"
	"fmt"
)

// ErrLimitExceeded is returned when component admission would exceed a
// concurrency cap. The typed *LimitError unwraps to it.
var ErrLimitExceeded = errors.New("lifecycle: component limit exceeded")

// Scope identifies which concurrency cap rejected an admission.
type Scope string

const (
	// ScopePerUser means the owner already holds MaxPerUser components.
	ScopePerUser Scope = "per-user"
	// ScopeGlobal means the manager already tracks MaxGlobal components.
	ScopeGlobal Scope = "global"
)

// LimitError is returned by Create when admission would exceed a cap. It is
// synchronous and must not be swallowed; the caller decides the fallback.
type LimitError struct {
	// Scope is the cap that was hit.
	Scope Scope

	// Owner is the requesting user.
	Owner string

	// Limit is the cap value.
	Limit int
}

// Error returns the limit message.
func (e *LimitError) Error() string {
	if e.Scope == ScopeGlobal {
		return fmt.Sprintf("global component limit reached (limit %d)", e.Limit)
	}
	return fmt.Sprintf("per-user component limit reached for %s (limit %d)", e.Owner, e.Limit)
}

// Unwrap returns ErrLimitExceeded so errors.Is matches.
func (e *LimitError) Unwrap() error {
	return ErrLimitExceeded
}
