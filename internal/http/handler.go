package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-service.com/task-service/internal/data_models"
	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/http/validators"
	model "task-service.com/task-service/internal/models"
	"task-service.com/task-service/internal/services"
)

type Handler struct {
	profile     model.Profile
	taskService *services.TaskService
	stats       *services.StatsService
	diagnostics *services.DiagnosticsService
}

func NewHandler(
	profile model.Profile,
	taskService *services.TaskService,
	stats *services.StatsService,
	diagnostics *services.DiagnosticsService,
) *Handler {
	return &Handler{
		profile:     profile,
		taskService: taskService,
		stats:       stats,
		diagnostics: diagnostics,
	}
}

func (h *Handler) ListTasks(c echo.Context) error {
	filters, err := validators.ParseListQuery(c)
	if err != nil {
		return err
	}

	page, err := h.taskService.ListTasks(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req.Title, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := validators.ParseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.SetCompleted(c.Request().Context(), id, *req.Completed)
	if err != nil {
		return h.notFound(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask answers with the removed record rather than an empty 204.
func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := validators.ParseID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.DeleteTask(c.Request().Context(), id)
	if err != nil {
		return h.notFound(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      h.profile.DeletedMessage(),
		h.profile.Noun: task,
	})
}

func (h *Handler) notFound(err error) error {
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		return apperrors.NotFound(h.profile.NotFoundMessage())
	}
	return err
}
