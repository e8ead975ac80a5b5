package errors

import "net/http"

// Conflicts are reported with 409 so clients reload before retrying.

var ErrOptimisticLock = &Exception{
	Message:    "optimistic locking conflict",
	StatusCode: http.StatusConflict,
}

var ErrColumnExists = &Exception{
	Message:    "column already exists",
	StatusCode: http.StatusConflict,
}

var ErrLastColumn = &Exception{
	Message:    "a board needs at least one column",
	StatusCode: http.StatusConflict,
}

var ErrHandoffSameTeam = &Exception{
	Message:    "task already belongs to the target team",
	StatusCode: http.StatusConflict,
}

var ErrLocalTask = &Exception{
	Message:    "task only exists locally",
	StatusCode: http.StatusConflict,
}
