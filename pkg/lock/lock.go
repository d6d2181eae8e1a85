// Package lock serializes workflow operations on the same document.
//
// The store's revision check already prevents lost updates; the lock on top
// of it keeps concurrent same-document requests from doing redundant work
// and returning avoidable conflicts. Local covers a single process, Redis
// covers multiple replicas.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrLocked indicates another operation currently holds the lock. Callers
// should surface it as a retryable conflict, not wait.
var ErrLocked = errors.New("document is locked by another operation")

// Locker runs fn while holding an exclusive lock on key. The lock is
// released when fn returns, or after ttl if the holder dies. When the lock
// is taken, WithLock returns ErrLocked immediately without running fn.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// IsLocked checks if an error indicates a held lock.
func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}
