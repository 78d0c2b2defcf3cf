package errors

import "net/http"

var ErrNoTokenAvailable = &Exception{
	Message:    "too many diagnostic queries in flight",
	StatusCode: http.StatusTooManyRequests,
}
