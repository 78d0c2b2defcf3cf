package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "record not found",
	StatusCode: http.StatusNotFound,
}
