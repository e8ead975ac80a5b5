package errors

import "net/http"

var ErrAssistantUnavailable = &Exception{
	Message:    "assistant unavailable",
	StatusCode: http.StatusBadGateway,
}

var ErrUnauthorized = &Exception{
	Message:    "unauthorized",
	StatusCode: http.StatusUnauthorized,
}
