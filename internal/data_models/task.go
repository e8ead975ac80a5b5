package dto

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	ColumnID    string     `json:"column_id"`
	Tags        []string   `json:"tags"`
	DueAt       *time.Time `json:"due_at"`
	AssigneeID  *string    `json:"assignee_id"`
}

// UpdateTaskRequest is an inline edit. Version, when set, must match the
// stored row.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Tags        *[]string  `json:"tags"`
	DueAt       *time.Time `json:"due_at"`
	AssigneeID  *string    `json:"assignee_id"`
	Version     *uint      `json:"version"`
}

type MoveTaskRequest struct {
	TaskID   string `json:"task_id"`
	ColumnID string `json:"column_id"`
}

type HandoffRequest struct {
	ToTeamID     string   `json:"to_team_id"`
	ToColumnID   string   `json:"to_column_id"`
	Notes        string   `json:"notes"`
	Requirements []string `json:"requirements"`
}
