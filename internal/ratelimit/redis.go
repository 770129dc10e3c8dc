package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrementScript counts a hit unless the window is already past the limit, opens the
// window expiry on the first hit and returns {count, remaining ttl in ms}.
var incrementScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count <= tonumber(ARGV[2]) then
	count = redis.call('INCR', KEYS[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore shares counters between instances. Keys expire with their window, so no purge is needed.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
}

func (s *RedisStore) Increment(ctx context.Context, key string, period time.Duration, limit int) (int, time.Time, error) {
	now := s.now()
	res, err := incrementScript.Run(ctx, s.client, []string{s.prefix + key}, period.Milliseconds(), limit).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected rate limit script reply: %v", res)
	}

	return int(res[0]), now.Add(time.Duration(res[1]) * time.Millisecond), nil
}
