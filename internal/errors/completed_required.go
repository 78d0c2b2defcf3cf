package errors

import "net/http"

var ErrCompletedRequired = &Exception{
	Message:    "completed is required",
	StatusCode: http.StatusBadRequest,
}
