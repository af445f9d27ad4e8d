package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRateLimited means the caller exhausted its attempt budget for the
// current window.
var ErrRateLimited = errors.New("too many attempts, try again later")

// Limiter is a fixed-window counter on Redis. A nil Limiter allows
// everything, so callers can wire it unconditionally.
type Limiter struct {
	redis  redis.UniversalClient
	max    int
	window time.Duration
}

func New(redisClient redis.UniversalClient, max int, window time.Duration) *Limiter {
	return &Limiter{redis: redisClient, max: max, window: window}
}

// Allow records one attempt for the key and reports whether it is within
// budget. The window starts at the first attempt and resets when it lapses.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}

	redisKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := l.redis.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("rate limit check failed: %w", err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return fmt.Errorf("rate limit expiry failed: %w", err)
		}
	}
	if count > int64(l.max) {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the counter for the key. Called after a successful login so
// legitimate users are not locked out by old failures.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if l == nil {
		return nil
	}
	return l.redis.Del(ctx, fmt.Sprintf("ratelimit:%s", key)).Err()
}
