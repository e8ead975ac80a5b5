package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow.com/taskflow/internal/board"
	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	middleware "taskflow.com/taskflow/internal/http/middlewares"
	"taskflow.com/taskflow/internal/http/validators"
)

// GetBoard renders the team's live board. Unknown teams get the sample board.
func (h *Handler) GetBoard(c echo.Context) error {
	st, err := h.boards.Acquire(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st.Snapshot())
}

// MoveTask applies a drop through the team's live store, which reverts the
// move when the write fails.
func (h *Handler) MoveTask(c echo.Context) error {
	var req dto.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateMoveTaskRequest(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	st, err := h.boards.Acquire(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := st.MoveTask(ctx, req.TaskID, req.ColumnID); err != nil {
		return err
	}

	task, ok := st.Task(req.TaskID)
	if !ok {
		return apperrors.ErrTaskNotFound
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) HandoffTask(c echo.Context) error {
	var req dto.HandoffRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateHandoffRequest(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.tasks.GetTask(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	st, err := h.boards.Acquire(ctx, task.TeamID)
	if err != nil {
		return err
	}

	var requestedBy string
	if id, ok := middleware.IdentityFrom(c); ok {
		requestedBy = id.Subject
	}
	moved, err := st.Handoff(ctx, task.ID, board.HandoffRequest{
		ToTeamID:     req.ToTeamID,
		ToColumnID:   req.ToColumnID,
		Notes:        req.Notes,
		Requirements: req.Requirements,
		RequestedBy:  requestedBy,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moved)
}
