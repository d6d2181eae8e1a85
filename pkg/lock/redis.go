package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when the caller still owns it, so a
// holder whose ttl expired cannot release a lock someone else has since
// taken.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`

// Redis is a distributed Locker backed by SET NX with a ttl.
type Redis struct {
	client redis.Cmdable
	logger *slog.Logger
}

// NewRedis creates a Redis-backed locker.
func NewRedis(client redis.Cmdable, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

// WithLock runs fn while holding the key, or returns ErrLocked immediately
// when another holder has it.
func (r *Redis) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	token := uuid.New().String()

	acquired, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}

	if !acquired {
		return ErrLocked
	}

	defer r.release(key, token)

	return fn(ctx)
}

func (r *Redis) release(key, token string) {
	// The caller's context may already be cancelled; the lock must still
	// be released.
	reply, err := r.client.Eval(context.Background(), releaseScript, []string{key}, token).Result()
	if err != nil {
		r.logger.Error("failed to release lock", "key", key, "error", err)

		return
	}

	if deleted, ok := reply.(int64); !ok || deleted != 1 {
		r.logger.Warn("lock already released or taken over", "key", key)
	}
}
