package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrTeamNotFound = &Exception{
	Message:    "team not found",
	StatusCode: http.StatusNotFound,
}
