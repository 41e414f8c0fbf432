package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TakeLock is a best-effort advisory lock held per agent while the
// check-then-take sequence runs, so one agent cannot slip two takes through
// the single-active-order guard. The TTL bounds the hold time if a release
// is lost.
type TakeLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTakeLock creates a redis-backed take lock
func NewTakeLock(client *redis.Client, ttl time.Duration) *TakeLock {
	return &TakeLock{client: client, ttl: ttl}
}

func lockKey(agentID int64) string {
	return fmt.Sprintf("takelock:agent:%d", agentID)
}

// TryLock attempts to acquire the agent's lock without blocking. It returns
// a release func and whether the lock was acquired.
func (l *TakeLock) TryLock(ctx context.Context, agentID int64) (func(), bool) {
	key := lockKey(agentID)
	ok, err := l.client.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil || !ok {
		return func() {}, false
	}
	return func() {
		l.client.Del(context.Background(), key)
	}, true
}
