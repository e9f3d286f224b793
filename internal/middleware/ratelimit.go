package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/estadio/futsal-booking/internal/config"
)

// NewRateLimiter returns a fixed-window request limiter backed by
// Redis.  Each client gets cfg.Limit requests per cfg.Window, counted
// with INCR on a key that expires at the window boundary.  Counting in
// Redis keeps the limit global across replicas of the service.  When
// Redis is unavailable the limiter fails open: booking traffic matters
// more than the limit.
func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ctx := c.Request().Context()
            now := time.Now()
            window := now.Unix() / int64(cfg.Window.Seconds())
            key := fmt.Sprintf("%s:%s:%s:%d", cfg.Prefix, clientID(c), c.Path(), window)

            n, err := rdb.Incr(ctx, key).Result()
            if err != nil {
                return next(c)
            }
            if n == 1 {
                rdb.Expire(ctx, key, cfg.Window)
            }

            remaining := int64(cfg.Limit) - n
            if remaining < 0 {
                remaining = 0
            }
            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if n > int64(cfg.Limit) {
                retry := int(cfg.Window.Seconds()) - int(now.Unix()%int64(cfg.Window.Seconds()))
                c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error":       "too_many_requests",
                    "retry_after": retry,
                })
            }
            return next(c)
        }
    }
}

// clientID identifies the caller for rate limiting: the authenticated
// user when present, the remote IP otherwise.
func clientID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        return fmt.Sprint(v)
    }
    if ip := c.RealIP(); ip != "" {
        return ip
    }
    return "anon"
}
