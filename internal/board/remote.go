package board

import (
	"context"
	"time"

	"taskflow.com/taskflow/internal/feed"
	model "taskflow.com/taskflow/pkg/models"
)

// Remote is the data gateway a Store reads from and writes through.
// FetchTeam reports a missing team with errors.ErrTeamNotFound.
type Remote interface {
	FetchTeam(ctx context.Context, teamID string) (*model.Team, error)
	FetchTasks(ctx context.Context, teamID string) ([]model.Task, error)
	UpdateTaskColumn(ctx context.Context, taskID string, change ColumnChange) (*model.Task, error)
	HandoffTask(ctx context.Context, taskID string, req HandoffRequest) (*model.Task, error)
	RefreshStreak(ctx context.Context, teamID string) (*model.TeamStreak, error)
}

// Subscriber hands out change-feed subscriptions owned by the caller.
type Subscriber interface {
	Subscribe(filter feed.Filter) *feed.Subscription
}

// ColumnChange is the remote write issued for a move.
type ColumnChange struct {
	ColumnID    string
	StatusLabel string
	StatusColor string
	At          time.Time
}

type HandoffRequest struct {
	ToTeamID     string
	ToColumnID   string
	Notes        string
	Requirements []string
	RequestedBy  string
}
