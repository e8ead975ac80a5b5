package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/pkg/models"
)

type TaskRepository struct {
	db *gorm.DB
}

// ErrOptimisticLock is returned when the stored version no longer matches.
var ErrOptimisticLock = apperrors.ErrOptimisticLock

// editableTaskColumns are written by Update; the version column is bumped alongside.
var editableTaskColumns = []string{
	"title", "description", "priority", "column_id", "team_id", "tags", "due_at",
	"assignee_id", "status_label", "status_color", "handoff_from_team_id",
	"handoff_status", "handoff_notes", "handoff_requirements", "handed_off_at",
	"completed_at", "version", "updated_at",
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Assignee").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByTeam(ctx context.Context, teamID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Where("team_id = ?", teamID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// Update writes every editable field guarded by the version column. On
// success task.Version is incremented.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return updateTask(r.db.WithContext(ctx), task)
}

func updateTask(db *gorm.DB, task *model.Task) error {
	next := *task
	next.Version = task.Version + 1
	next.UpdatedAt = time.Now().UTC()
	next.Assignee = nil

	res := db.Model(&model.Task{ID: task.ID}).
		Where("version = ?", task.Version).
		Select(editableTaskColumns).
		Updates(&next)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version = next.Version
	task.UpdatedAt = next.UpdatedAt
	return nil
}

// CountCompletedBetween counts tasks of the team completed in [from, to).
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, teamID string, from, to time.Time) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("team_id = ? AND completed_at >= ? AND completed_at < ?", teamID, from.UTC(), to.UTC()).
		Count(&n).Error
	return int(n), err
}

func (r *TaskRepository) CountCompleted(ctx context.Context, teamID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("team_id = ? AND completed_at IS NOT NULL", teamID).
		Count(&n).Error
	return int(n), err
}
