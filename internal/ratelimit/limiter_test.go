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

func setupLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Limiter{Rdb: rdb, Limit: limit, Window: time.Minute}, mr
}

func TestAllow_WithinLimit(t *testing.T) {
	l, _ := setupLimiter(t, 3)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	}
	assert.False(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
}

func TestAllow_KeysIndependent(t *testing.T) {
	l, _ := setupLimiter(t, 1)
	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	assert.False(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	assert.True(t, l.Allow(ctx, "leadrl:5.6.7.8:main-st"))
}

func TestAllow_WindowExpires(t *testing.T) {
	l, mr := setupLimiter(t, 1)
	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	assert.False(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	mr.FastForward(2 * time.Minute)
	assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
}

func TestAllow_SteadySubLimitTrafficNeverBlocked(t *testing.T) {
	l, mr := setupLimiter(t, 2)
	ctx := context.Background()

	// one request every 45s against 2/min stays under the limit in any
	// window, so no call may ever be rejected
	for i := 0; i < 6; i++ {
		assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"), "call %d", i)
		mr.FastForward(45 * time.Second)
	}
}

func TestAllow_TTLNotRefreshedByLaterHits(t *testing.T) {
	l, mr := setupLimiter(t, 5)
	ctx := context.Background()

	assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))
	mr.FastForward(30 * time.Second)
	assert.True(t, l.Allow(ctx, "leadrl:1.2.3.4:main-st"))

	// the window opened at the first hit; 31 more seconds closes it
	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists("leadrl:1.2.3.4:main-st"))
}

func TestAllow_Disabled(t *testing.T) {
	ctx := context.Background()
	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow(ctx, "k"))

	l, _ := setupLimiter(t, 0)
	assert.True(t, l.Allow(ctx, "k"))
}

func TestAllow_RedisDownFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	l := &Limiter{Rdb: rdb, Limit: 1, Window: time.Minute}
	assert.True(t, l.Allow(context.Background(), "k"))
}
