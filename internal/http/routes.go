package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Register(e *echo.Echo, h *Handler) {
	g := e.Group(h.profile.RoutePrefix)

	g.GET("/health", h.Health)
	g.GET("/info", h.Info)
	g.GET("/stats", h.Stats)
	g.GET("/analytics", h.Analytics)
	g.GET("/pool-stats", h.PoolStats)
	g.POST("/query", h.RawQuery)

	resource := "/" + h.profile.Resource
	g.GET(resource, h.ListTasks)
	g.POST(resource, h.CreateTask)
	g.PATCH(resource+"/:id", h.UpdateTask)
	g.DELETE(resource+"/:id", h.DeleteTask)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
