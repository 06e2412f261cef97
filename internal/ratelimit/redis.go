// Package ratelimit – Redis-backed sliding window.
//
// Counters are sorted sets keyed by the limited identity: each accepted event
// is a member scored with its timestamp in milliseconds. One Lua script
// prunes expired members, checks occupancy, and conditionally records the new
// event, so the check-and-increment is atomic on the Redis side no matter how
// many service instances share the store.
package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slideScript prunes, checks, and conditionally adds in one atomic step.
//
// KEYS[1]  counter key
// ARGV[1]  now (unix milliseconds)
// ARGV[2]  window (milliseconds)
// ARGV[3]  limit
// ARGV[4]  unique member for this event
//
// Returns 1 when the event was admitted, 0 when the window is full.
var slideScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, tonumber(ARGV[1]) - tonumber(ARGV[2]))
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call('ZADD', KEYS[1], tonumber(ARGV[1]), ARGV[4])
redis.call('PEXPIRE', KEYS[1], tonumber(ARGV[2]))
return 1
`)

// Redis is a sliding-window limiter backed by a shared Redis instance.
// Safe for concurrent use; all coordination happens server-side.
type Redis struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

// NewRedis constructs a limiter permitting at most limit events per key in
// any trailing window. prefix namespaces the counter keys (e.g. "rl:comment")
// so independent limits can share one Redis database.
func NewRedis(rdb redis.Cmdable, limit int, window time.Duration, prefix string) *Redis {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &Redis{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Allow implements Limiter.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now().UnixMilli()
	member := uuid.NewString()
	res, err := slideScript.Run(ctx, r.rdb,
		[]string{r.prefix + ":" + key},
		now, r.window.Milliseconds(), r.limit, member,
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
