package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"task-service.com/task-service/internal/logging"
)

// RequestLogger puts the request ID into the request context and logs each
// completed request. It must run after echo's RequestID middleware.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := logging.ContextWithRequestID(req.Context(), requestID)
			c.SetRequest(req.WithContext(ctx))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			event := logging.Ctx(ctx).Info()
			if status >= 500 {
				event = logging.Ctx(ctx).Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Msg("request completed")
			return nil
		}
	}
}
