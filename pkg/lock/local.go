package lock

import (
	"context"
	"sync"
	"time"
)

// Local is an in-process Locker backed by a mutex per key. Suitable for a
// single replica and for tests.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

func (l *Local) acquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[key]; taken {
		return false
	}

	l.held[key] = struct{}{}

	return true
}

func (l *Local) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, key)
}

// WithLock runs fn while holding the key. The ttl is ignored locally; the
// lock cannot outlive the process that holds it.
func (l *Local) WithLock(ctx context.Context, key string, _ time.Duration, fn func(context.Context) error) error {
	if !l.acquire(key) {
		return ErrLocked
	}

	defer l.release(key)

	return fn(ctx)
}
