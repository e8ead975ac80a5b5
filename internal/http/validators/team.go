package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "taskflow.com/taskflow/internal/data_models"
)

func ValidateCreateTeamRequest(r *dto.CreateTeamRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}

func ValidateUpdateTeamRequest(r *dto.UpdateTeamRequest) error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name cannot be empty")
	}
	return nil
}

func ValidateAddColumnRequest(r *dto.ColumnRequest) error {
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if r.Position != nil && *r.Position < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "position must not be negative")
	}
	return nil
}

func ValidateUpdateColumnRequest(r *dto.ColumnRequest) error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name cannot be empty")
	}
	if r.Position != nil && *r.Position < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "position must not be negative")
	}
	return nil
}
