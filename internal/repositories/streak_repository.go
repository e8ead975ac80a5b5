package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "taskflow.com/taskflow/pkg/models"
)

type StreakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// Get returns the team's record, creating an empty one on first access.
func (r *StreakRepository) Get(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	streak := model.TeamStreak{TeamID: teamID}
	err := r.db.WithContext(ctx).
		Where(model.TeamStreak{TeamID: teamID}).
		Attrs(model.TeamStreak{Version: 1, UpdatedAt: time.Now().UTC()}).
		FirstOrCreate(&streak).Error
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) Update(ctx context.Context, streak *model.TeamStreak) error {
	next := *streak
	next.Version = streak.Version + 1
	next.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.TeamStreak{TeamID: streak.TeamID}).
		Where("version = ?", streak.Version).
		Select("current_streak", "longest_streak", "last_activity_date", "total_completed", "version", "updated_at").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	streak.Version = next.Version
	streak.UpdatedAt = next.UpdatedAt
	return nil
}
