package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/deppfellow/robotics-club/internal/errs"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit"

// fixedWindow increments key and starts its expiry on the first hit of a
// window. It returns the hit count and the time left in the window.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Login throttles the credential endpoints per client IP using the
// configured auth limits.
func (r *RateLimitMiddleware) Login() echo.MiddlewareFunc {
	cfg := r.server.Config.Auth
	return r.Limit("login", cfg.LoginRateLimit, cfg.LoginRateWindow)
}

// Limit allows limit requests per client IP every window. Requests pass
// through when Redis is unavailable or limit is not positive.
func (r *RateLimitMiddleware) Limit(name string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limit <= 0 || r.server.Redis == nil {
			return next
		}

		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", rateLimitKeyPrefix, name, c.RealIP())

			count, ttl, err := r.hit(c.Request().Context(), key, window)
			if err != nil {
				GetLogger(c).Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

			if count > limit {
				h.Set("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
				r.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Too many attempts, please try again later")
			}

			return next(c)
		}
	}
}

func (r *RateLimitMiddleware) hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := fixedWindow.Run(ctx, r.server.Redis, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply %v", res)
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	return int(res[0]), ttl, nil
}

func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	r.server.LoggerService.RecordEvent("RateLimitHit", map[string]interface{}{
		"endpoint": endpoint,
	})
}
