package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindow counts hits on KEYS[1]; the first hit of a window starts its TTL.
// Returns {count, pttl}.
var fixedWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Redis is a fixed-window counter shared by every instance using the same server.
type Redis struct {
	rdb redis.Scripter
	cfg Config
}

func NewRedis(rdb redis.Scripter, cfg Config) *Redis {
	return &Redis{rdb: rdb, cfg: cfg}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	raw, err := fixedWindow.Run(ctx, r.rdb, []string{key}, r.cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(raw) != 2 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	return windowResult(r.cfg.Max, raw[0], time.Duration(raw[1])*time.Millisecond), nil
}

func windowResult(max int, count int64, ttl time.Duration) Result {
	res := Result{Limit: max}

	if count <= int64(max) {
		res.Allowed = true
		res.Remaining = max - int(count)
		return res
	}

	res.RetryAfter = ttl
	if res.RetryAfter < time.Second {
		res.RetryAfter = time.Second
	}
	return res
}
