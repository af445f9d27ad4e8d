package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, max, window), mr
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Allow(ctx, "login:1.2.3.4"))
	}
	assert.ErrorIs(t, l.Allow(ctx, "login:1.2.3.4"), ErrRateLimited)

	// Another key has its own budget.
	assert.NoError(t, l.Allow(ctx, "login:5.6.7.8"))
}

func TestLimiterWindowLapses(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "login:1.2.3.4"))
	require.ErrorIs(t, l.Allow(ctx, "login:1.2.3.4"), ErrRateLimited)

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Allow(ctx, "login:1.2.3.4"))
}

func TestLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Allow(ctx, "login:1.2.3.4"))
	require.ErrorIs(t, l.Allow(ctx, "login:1.2.3.4"), ErrRateLimited)

	require.NoError(t, l.Reset(ctx, "login:1.2.3.4"))
	assert.NoError(t, l.Allow(ctx, "login:1.2.3.4"))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *Limiter
	assert.NoError(t, l.Allow(context.Background(), "login:1.2.3.4"))
	assert.NoError(t, l.Reset(context.Background(), "login:1.2.3.4"))
}
