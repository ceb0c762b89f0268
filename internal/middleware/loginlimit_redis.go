package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const loginLimitKeyPrefix = "loginlimit:"

var loginLimitScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

local windowStart = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)

if count >= limit then
    return 0
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)

return 1
`)

// RedisLoginRateLimiter shares the attempt window across instances via a
// sorted set per client. Redis being down must not lock users out, so
// failures allow the request.
type RedisLoginRateLimiter struct {
	client *redis.Client
}

func NewRedisLoginRateLimiter(client *redis.Client) *RedisLoginRateLimiter {
	return &RedisLoginRateLimiter{client: client}
}

func (rl *RedisLoginRateLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now().Unix()

	result, err := loginLimitScript.Run(ctx, rl.client,
		[]string{loginLimitKeyPrefix + key},
		now, int64(loginWindowDuration.Seconds()), loginMaxAttempts,
	).Int64()
	if err != nil {
		log.Warn().Err(err).Msg("redis login limit check failed, allowing request")
		return true
	}

	return result == 1
}
