package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	dto "task-service.com/task-service/internal/data_models"
	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/logging"
)

// NewErrorHandler renders every error as {error, details?, timestamp}.
// details carries the underlying error text and is only filled when
// showDetails is set.
func NewErrorHandler(showDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := dto.ErrorResponse{
			Error:     "Internal server error",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		var appErr *apperrors.Exception
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.StatusCode
			resp.Error = appErr.Message
			if showDetails {
				resp.Details = appErr.Detail()
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			resp.Error = fmt.Sprint(httpErr.Message)
			if showDetails && httpErr.Internal != nil {
				resp.Details = httpErr.Internal.Error()
			}
		default:
			if showDetails {
				resp.Details = err.Error()
			}
		}

		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			logging.Ctx(ctx).Error().Err(err).Int("status", status).Msg("request failed")
		} else {
			logging.Ctx(ctx).Debug().Err(err).Int("status", status).Msg("request rejected")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, resp)
		}
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("failed to write error response")
		}
	}
}
