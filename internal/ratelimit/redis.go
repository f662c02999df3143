package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript bumps the key and attaches the window TTL atomically when the
// bump opened a fresh window. Returns {count, pttl}.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// redisStore shares one window budget across service instances.
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a WindowStore backed by the given Redis client.
func NewRedisStore(client *redis.Client, prefix string) WindowStore {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	res, err := incrScript.Run(ctx, s.client,
		[]string{s.prefix + ":" + key},
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("ratelimit: redis incr: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("ratelimit: redis incr: unexpected reply %v", res)
	}

	count, ok := res[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("ratelimit: redis incr: non-integer count %v", res[0])
	}
	ttlMs, ok := res[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("ratelimit: redis incr: non-integer ttl %v", res[1])
	}

	return count, time.Duration(ttlMs) * time.Millisecond, nil
}
