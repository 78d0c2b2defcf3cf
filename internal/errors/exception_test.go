package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestExceptionIs(t *testing.T) {
	wrapped := fmt.Errorf("list: %w", ErrInvalidLimit)
	if !errors.Is(wrapped, ErrInvalidLimit) {
		t.Error("wrapped sentinel should match")
	}

	clone := &Exception{Message: ErrTaskNotFound.Message, StatusCode: ErrTaskNotFound.StatusCode}
	if !errors.Is(clone, ErrTaskNotFound) {
		t.Error("copy with same message and status should match")
	}
	if errors.Is(ErrInvalidLimit, ErrInvalidOffset) {
		t.Error("different sentinels must not match")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrTitleRequired, http.StatusBadRequest},
		{NotFound("Todo not found"), http.StatusNotFound},
		{ErrPoolExhausted, http.StatusServiceUnavailable},
		{ErrNoTokenAvailable, http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", ErrRawQueryForbidden), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDatabase(t *testing.T) {
	if Database(nil) != nil {
		t.Error("nil should stay nil")
	}

	driverErr := errors.New("relation \"todos\" does not exist")
	err := Database(driverErr)
	var appErr *Exception
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *Exception, got %T", err)
	}
	if appErr.StatusCode != http.StatusInternalServerError || appErr.Message != "Database error" {
		t.Errorf("unexpected exception %+v", appErr)
	}
	if appErr.Detail() != driverErr.Error() || !errors.Is(err, driverErr) {
		t.Error("driver error should be kept as detail and unwrap target")
	}

	if got := Database(ErrPoolExhausted); got != ErrPoolExhausted {
		t.Errorf("exceptions should pass through, got %v", got)
	}
}
