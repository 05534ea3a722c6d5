package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Vadim-3/b2-hm14/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return c.Request.Method + " " + fp
	}
	return c.Request.Method + " " + c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by route and client IP
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserAndPath gives every caller its own counter per route.
// Requests without a resolved caller are keyed by IP.
func KeyByUserAndPath() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:path:" + normalizePath(c) + ":anon:" + ipFromCtx(c)
		}
		return "rl:path:" + normalizePath(c) + ":user:" + uid
	}
}

// Decision is the outcome of one counted request.
type Decision struct {
	Allowed   bool
	Count     int
	Remaining int
	Reset     time.Duration
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string, max int, window time.Duration) (Decision, error)
}

// Lua script: atomic INCR, PEXPIRE on the first hit, returns count and remaining ttl
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisLimiter shares counters across instances through Redis.
type RedisLimiter struct {
	rdb *redis.Client
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{rdb: rdb}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, max int, window time.Duration) (Decision, error) {
	res, err := incrExpireScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return Decision{}, err
	}
	count := toInt(res[0])
	ttl := time.Duration(0)
	if len(res) > 1 {
		if ms := toInt(res[1]); ms > 0 {
			ttl = time.Duration(ms) * time.Millisecond
		}
	}
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= max, Count: count, Remaining: remaining, Reset: ttl}, nil
}

type AllowFunc func(*gin.Context) bool // return true for bypass limit

// RateLimit rejects requests over max per window with 429 before the
// handler runs. Limiter errors let the request through.
func RateLimit(limiter RateLimiter, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger) gin.HandlerFunc {
	return rateLimit(limiter, max, window, keyFn, allow, logger, true)
}

// RateLimitStrict is RateLimit that answers 503 when the limiter is
// unavailable, so the quota holds during a Redis outage.
func RateLimitStrict(limiter RateLimiter, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger) gin.HandlerFunc {
	return rateLimit(limiter, max, window, keyFn, allow, logger, false)
}

func rateLimit(limiter RateLimiter, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger, failOpen bool) gin.HandlerFunc {
	if limiter == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}
		if strings.EqualFold(c.Request.Method, http.MethodOptions) {
			c.Next()
			return
		}

		key := keyFn(c)
		d, err := limiter.Allow(c.Request.Context(), key, max, window)
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithFields(logrus.Fields{"key": key, "fail_open": failOpen}).Warn("rate limiter unavailable")
			}
			if !failOpen {
				response.Abort(c, http.StatusServiceUnavailable, "rate limiter unavailable", nil)
				return
			}
			c.Next()
			return
		}

		resetSec := int((d.Reset + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if !d.Allowed {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func toInt(v interface{}) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}
