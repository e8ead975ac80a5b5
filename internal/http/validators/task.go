package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "taskflow.com/taskflow/internal/data_models"
)

const maxTitleLength = 200

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if len(r.Title) > maxTitleLength {
		return echo.NewHTTPError(http.StatusBadRequest, "title is too long")
	}
	return nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title cannot be empty")
	}
	if r.Title != nil && len(*r.Title) > maxTitleLength {
		return echo.NewHTTPError(http.StatusBadRequest, "title is too long")
	}
	return nil
}

func ValidateMoveTaskRequest(r *dto.MoveTaskRequest) error {
	if r.TaskID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task_id is required")
	}
	if r.ColumnID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "column_id is required")
	}
	return nil
}

func ValidateHandoffRequest(r *dto.HandoffRequest) error {
	if r.ToTeamID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "to_team_id is required")
	}
	for _, req := range r.Requirements {
		if strings.TrimSpace(req) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "requirements cannot be empty")
		}
	}
	return nil
}
