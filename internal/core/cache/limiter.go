package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window attempt counter: at most Limit calls to Allow
// per key within Window. Without a client every attempt is allowed.
type Limiter struct {
	RDB    *redis.Client
	Prefix string
	Limit  int64
	Window time.Duration
}

func (l *Limiter) enabled() bool { return l != nil && l.RDB != nil && l.Limit > 0 }

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.enabled() {
		return true, nil
	}
	k := l.Prefix + key
	n, err := l.RDB.Incr(ctx, k).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		if err := l.RDB.Expire(ctx, k, l.Window).Err(); err != nil {
			return true, err
		}
	}
	return n <= l.Limit, nil
}

func (l *Limiter) Reset(ctx context.Context, key string) error {
	if !l.enabled() {
		return nil
	}
	return l.RDB.Del(ctx, l.Prefix+key).Err()
}
