package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter is a fixed-window counter on Redis. A nil client or a
// non-positive limit disables limiting entirely.
type Limiter struct {
	Rdb    *redis.Client
	Limit  int
	Window time.Duration
}

// Allow increments the counter for key and reports whether the caller is
// within the limit. Redis being down fails open: a throttle outage must
// not take the lead form with it.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.Rdb == nil || l.Limit <= 0 {
		return true
	}
	window := l.Window
	if window <= 0 {
		window = time.Minute
	}

	count, err := l.Rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
		return true
	}
	// The window starts at the first hit. Setting the TTL on every call
	// would push the window forward and lock out steady sub-limit traffic.
	if count == 1 {
		if err := l.Rdb.Expire(ctx, key, window).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("rate limiter expire failed")
		}
	}
	return count <= int64(l.Limit)
}
