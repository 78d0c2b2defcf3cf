package middleware

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "task-service.com/task-service/internal/errors"
)

// RateLimiter allows limit requests per client IP in each fixed window.
// Buckets idle for longer than a window are dropped once per window.
func RateLimiter(limit int, window time.Duration, skipper echomw.Skipper) echo.MiddlewareFunc {
	type bucket struct {
		count int
		start time.Time
	}

	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}

	var (
		mu        sync.Mutex
		buckets   = make(map[string]*bucket)
		lastSweep = time.Now()
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			now := time.Now()
			key := c.RealIP()

			mu.Lock()
			if now.Sub(lastSweep) > window {
				for k, b := range buckets {
					if now.Sub(b.start) > window {
						delete(buckets, k)
					}
				}
				lastSweep = now
			}

			b, ok := buckets[key]
			if !ok || now.Sub(b.start) > window {
				b = &bucket{start: now}
				buckets[key] = b
			}

			if b.count >= limit {
				mu.Unlock()
				return apperrors.ErrRateLimited
			}

			b.count++
			mu.Unlock()

			return next(c)
		}
	}
}
