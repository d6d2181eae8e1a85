package cmd

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/selvklart/docflow/pkg/lock"
)

// NewLocker creates a document locker. With a redis URL configured the
// lock is shared across instances, otherwise it only guards this process.
func NewLocker(redisURL string, logger *slog.Logger) lock.Locker {
	if redisURL == "" {
		return lock.NewLocal()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Errorf("failed to parse redis URL: %w", err))
	}

	return lock.NewRedis(redis.NewClient(opts), logger)
}
