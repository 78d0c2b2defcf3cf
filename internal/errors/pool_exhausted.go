package errors

import "net/http"

var ErrPoolExhausted = &Exception{
	Message:    "database connection pool exhausted",
	StatusCode: http.StatusServiceUnavailable,
}
