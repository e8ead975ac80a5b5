package services

import (
	"context"

	"taskflow.com/taskflow/internal/board"
	dto "taskflow.com/taskflow/internal/data_models"
	model "taskflow.com/taskflow/pkg/models"
)

// BoardGateway serves live board stores from the local services.
type BoardGateway struct {
	teams    *TeamService
	tasks    *TaskService
	handoffs *HandoffService
	streaks  *StreakService
}

var _ board.Remote = (*BoardGateway)(nil)

func NewBoardGateway(teams *TeamService, tasks *TaskService, handoffs *HandoffService, streaks *StreakService) *BoardGateway {
	return &BoardGateway{teams: teams, tasks: tasks, handoffs: handoffs, streaks: streaks}
}

func (g *BoardGateway) FetchTeam(ctx context.Context, teamID string) (*model.Team, error) {
	return g.teams.GetTeam(ctx, teamID)
}

func (g *BoardGateway) FetchTasks(ctx context.Context, teamID string) ([]model.Task, error) {
	return g.tasks.ListTasks(ctx, teamID)
}

func (g *BoardGateway) UpdateTaskColumn(ctx context.Context, taskID string, change board.ColumnChange) (*model.Task, error) {
	return g.tasks.MoveTask(ctx, taskID, change.ColumnID, change.At)
}

func (g *BoardGateway) HandoffTask(ctx context.Context, taskID string, req board.HandoffRequest) (*model.Task, error) {
	task, _, err := g.handoffs.Transfer(ctx, taskID, dto.HandoffRequest{
		ToTeamID:     req.ToTeamID,
		ToColumnID:   req.ToColumnID,
		Notes:        req.Notes,
		Requirements: req.Requirements,
	}, req.RequestedBy)
	return task, err
}

func (g *BoardGateway) RefreshStreak(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	return g.streaks.Recompute(ctx, teamID)
}
