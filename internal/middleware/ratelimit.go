package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/asdominguez/abstracts-portal/internal/config"
)

// LoginRateLimit throttles login attempts per client IP using a fixed
// window counter in Redis (INCR + EXPIRE on first hit).  When the limiter is
// disabled or Redis is unavailable it becomes a no-op; on a Redis error the
// request is allowed through, availability wins over throttling here.
func LoginRateLimit(cfg config.LoginRateConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:%s", cfg.Prefix, c.RealIP())

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logrus.WithError(err).Warn("login rate limiter unavailable")
				return next(c)
			}
			if n == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}
			if n > int64(cfg.Limit) {
				retry := cfg.Window
				if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					retry = ttl
				}
				c.Response().Header().Set("Retry-After",
					strconv.Itoa(int(retry/time.Second)+1))
				return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
			}
			return next(c)
		}
	}
}
