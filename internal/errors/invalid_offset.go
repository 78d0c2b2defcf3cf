package errors

import "net/http"

var ErrInvalidOffset = &Exception{
	Message:    "offset must be a non-negative integer",
	StatusCode: http.StatusBadRequest,
}
