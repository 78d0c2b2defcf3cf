package validators

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "task-service.com/task-service/internal/errors"
	"task-service.com/task-service/internal/querybuilder"
)

// ParseListQuery reads limit, offset, completed, search, sort and order.
// sort and order are passed through untouched; the builder decides whether
// to honour them.
func ParseListQuery(c echo.Context) (querybuilder.ListFilters, error) {
	f := querybuilder.ListFilters{
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
		Order:  c.QueryParam("order"),
		Limit:  querybuilder.DefaultLimit,
		Offset: querybuilder.DefaultOffset,
	}

	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return f, apperrors.ErrInvalidLimit
		}
		f.Limit = limit
	}

	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return f, apperrors.ErrInvalidOffset
		}
		f.Offset = offset
	}

	if v := c.QueryParam("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperrors.ErrInvalidCompleted
		}
		f.Completed = &completed
	}

	return f, nil
}

func ParseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidID
	}
	return id, nil
}
