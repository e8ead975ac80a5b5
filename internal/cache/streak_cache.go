package cache

import (
	"context"
	"errors"

	model "taskflow.com/taskflow/pkg/models"
)

type StreakCache interface {
	Get(ctx context.Context, teamID string) (*model.TeamStreak, error)

	Set(ctx context.Context, streak *model.TeamStreak) error

	Invalidate(ctx context.Context, teamID string) error
}

var ErrCacheMiss = errors.New("streak not cached")
