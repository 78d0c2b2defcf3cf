package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-service.com/task-service/internal/data_models"
	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/services"
)

func (h *Handler) Health(c echo.Context) error {
	report := h.diagnostics.Health(c.Request().Context())

	status := http.StatusOK
	if report.Status != services.StatusOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.stats.ComputeStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Analytics(c echo.Context) error {
	analytics, err := h.stats.ComputeAnalytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analytics)
}

func (h *Handler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.diagnostics.Info())
}

func (h *Handler) PoolStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.diagnostics.PoolStats())
}

func (h *Handler) RawQuery(c echo.Context) error {
	var req dto.RawQueryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.diagnostics.RawQuery(c.Request().Context(), req.Query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
