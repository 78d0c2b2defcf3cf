package http

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "task-service.com/task-service/internal/http/middlewares"
	"task-service.com/task-service/internal/http/validators"
)

type ServerOptions struct {
	ShowErrorDetails   bool
	RateLimitPerMinute int
}

// NewServer builds the echo instance with the shared middleware stack and
// registers h's routes.
func NewServer(h *Handler, opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = validators.NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(opts.ShowErrorDetails)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(echomw.Recover())
	e.Use(echomw.Secure())
	e.Use(echomw.CORS())
	if opts.RateLimitPerMinute > 0 {
		e.Use(middleware.RateLimiter(opts.RateLimitPerMinute, time.Minute, skipProbes))
	}

	Register(e, h)
	return e
}

func skipProbes(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasSuffix(p, "/health") || p == "/metrics"
}
