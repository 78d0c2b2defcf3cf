package errors

import "net/http"

var ErrInvalidCompleted = &Exception{
	Message:    "completed must be true or false",
	StatusCode: http.StatusBadRequest,
}
