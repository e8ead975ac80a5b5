package errors

import "net/http"

var ErrUnknownColumn = &Exception{
	Message:    "unknown column",
	StatusCode: http.StatusUnprocessableEntity,
}
