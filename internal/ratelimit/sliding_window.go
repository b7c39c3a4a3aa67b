// Package ratelimit bounds login attempts with a Redis-backed sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result reports the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is the contract the middleware depends on.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// SlidingWindowLimiter counts request timestamps in a Redis sorted set and
// admits a request only while the window holds fewer than the limit. The
// check-and-add runs as one Lua script so concurrent logins cannot race past
// the limit.
type SlidingWindowLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewSlidingWindowLimiter creates a limiter over the shared Redis client.
func NewSlidingWindowLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{client: client, limit: limit, window: window, prefix: prefix}
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)

	if count < limit then
		local counter = redis.call('INCR', counter_key)
		redis.call('ZADD', key, now, now .. ':' .. counter)
		redis.call('PEXPIRE', key, window_ms)
		redis.call('PEXPIRE', counter_key, window_ms)
		return {1, limit - count - 1, 0}
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local retry_after = 0
	if #oldest >= 2 then
		retry_after = oldest[2] + window_ms - now
	end
	return {0, 0, retry_after}
`)

// Allow records the request when under the limit and reports the decision.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := time.Now()
	redisKey := l.prefix + key

	raw, err := slidingWindowScript.Run(ctx, l.client,
		[]string{redisKey, redisKey + ":counter"},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("run rate limit script: %w", err)
	}
	if len(raw) < 3 {
		return nil, fmt.Errorf("unexpected script result length: %d", len(raw))
	}

	allowed, ok := raw[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for allowed: %T", raw[0])
	}
	remaining, ok := raw[1].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for remaining: %T", raw[1])
	}
	retryAfterMs, ok := raw[2].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected type for retry_after: %T", raw[2])
	}

	result := &Result{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
	}
	if !result.Allowed && retryAfterMs > 0 {
		result.RetryAfter = time.Duration(retryAfterMs) * time.Millisecond
	}
	return result, nil
}
