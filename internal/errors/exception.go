package errors

import (
	"errors"
	"net/http"
)

// Exception is an error with the HTTP status it should be reported with.
// Err, when set, holds the underlying driver error.
type Exception struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *Exception) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Exception) Unwrap() error {
	return e.Err
}

// Is matches sentinels by message and status so wrapped copies compare equal.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Message == t.Message && e.StatusCode == t.StatusCode
}

// Detail returns the underlying error text, or "" when there is none.
func (e *Exception) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func Validation(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusBadRequest}
}

func NotFound(message string) *Exception {
	return &Exception{Message: message, StatusCode: http.StatusNotFound}
}

// Database wraps a driver failure. Exceptions pass through unchanged so a
// pool timeout keeps its own status.
func Database(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Exception
	if errors.As(err, &appErr) {
		return err
	}
	return &Exception{Message: "Database error", StatusCode: http.StatusInternalServerError, Err: err}
}
