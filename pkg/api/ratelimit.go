package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit is the outcome of one limiter check.
type RateLimit struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RateLimiter throttles per caller.
type RateLimiter interface {
	Check(ctx context.Context, userID string) (RateLimit, error)
}

// RedisRateLimiter is a fixed one-minute window counter per user.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
}

func NewRedisRateLimiter(client *redis.Client, perMinute int) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: perMinute}
}

func (r *RedisRateLimiter) Check(ctx context.Context, userID string) (RateLimit, error) {
	key := fmt.Sprintf("ratelimit:%s:%d", userID, time.Now().Unix()/60)

	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimit{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	used := int(count.Val())
	rl := RateLimit{
		Limit:     r.limit,
		Remaining: r.limit - used,
		ResetIn:   time.Duration(60-time.Now().Unix()%60) * time.Second,
	}
	if rl.Remaining < 0 {
		rl.Remaining = 0
	}
	rl.Allowed = used <= r.limit
	return rl, nil
}
