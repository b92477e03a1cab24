package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mkarlsson/showtime/internal/config"
)

// tokenBucketScript refills and consumes atomically inside Redis so
// concurrent requests from the same client never double-spend tokens.
//
// KEYS[1] bucket hash
// ARGV: capacity, refillTokens, refillIntervalMs, nowMs, ttlSec
// Returns {allowed(0/1), remaining, retryAfterMs}
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

local elapsed = now - ts
if elapsed > 0 and interval > 0 then
  local refills = math.floor(elapsed / interval)
  if refills > 0 then
    tokens = math.min(capacity, tokens + refills * refill)
    ts = ts + refills * interval
  end
end

local allowed = 0
local retry = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
else
  retry = interval - (now - ts)
  if retry < 0 then retry = 0 end
end

redis.call('HMSET', key, 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, retry}
`)

// NewRateLimit limits each client IP to cfg.Capacity requests per route with
// one token refilled every cfg.RefillInterval. Disabled or Redis-less setups
// get a pass-through; Redis errors fail open so a cache outage never takes
// the read path down with it.
func NewRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.RealIP(), c.Path())
			now := time.Now().UnixMilli()

			res, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key},
				cfg.Capacity, 1, cfg.RefillInterval.Milliseconds(), now, int(cfg.TTL.Seconds()),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				return next(c)
			}

			if res[0] == 0 {
				retryAfter := time.Duration(res[2]) * time.Millisecond
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":   "rate_limited",
					"message": "too many requests",
				})
			}
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", res[1]))
			return next(c)
		}
	}
}
