package errors

import "net/http"

var ErrRawQueryDisabled = &Exception{
	Message:    "raw queries are disabled in this environment",
	StatusCode: http.StatusForbidden,
}

var ErrRawQueryForbidden = &Exception{
	Message:    "only SELECT queries are allowed",
	StatusCode: http.StatusForbidden,
}

var ErrRawQueryMultiStatement = &Exception{
	Message:    "only a single statement is allowed",
	StatusCode: http.StatusForbidden,
}

var ErrRawQueryRequired = &Exception{
	Message:    "query is required",
	StatusCode: http.StatusBadRequest,
}
