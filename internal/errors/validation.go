package errors

import "net/http"

var ErrInvalidJSON = &Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidPriority = &Exception{
	Message:    "priority must be one of low, medium, high, urgent",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidTeamType = &Exception{
	Message:    "unknown team type",
	StatusCode: http.StatusBadRequest,
}
