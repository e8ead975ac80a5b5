package services

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/feed"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

// StreakScheduler queues a team for streak recomputation.
type StreakScheduler interface {
	Enqueue(teamID string) bool
}

type TaskService struct {
	repo      *repository.TaskRepository
	teams     *repository.TeamRepository
	publisher feed.Publisher
	streaks   StreakScheduler
	logger    *log.Entry
}

func NewTaskService(
	repo *repository.TaskRepository,
	teams *repository.TeamRepository,
	publisher feed.Publisher,
	streaks StreakScheduler,
	logger *log.Logger,
) *TaskService {
	return &TaskService{
		repo:      repo,
		teams:     teams,
		publisher: publisher,
		streaks:   streaks,
		logger:    logger.WithField("component", "services.task"),
	}
}

// CreateTask adds a task to the team. An empty column id places it in the
// first column; any other id must be a column of the team.
func (s *TaskService) CreateTask(ctx context.Context, teamID string, req dto.CreateTaskRequest) (*model.Task, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	col, err := targetColumn(team, req.ColumnID)
	if err != nil {
		return nil, err
	}
	priority, ok := constants.ParsePriority(strings.ToLower(req.Priority))
	if !ok {
		return nil, apperrors.ErrInvalidPriority
	}

	task := &model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    priority,
		TeamID:      teamID,
		Tags:        req.Tags,
		DueAt:       req.DueAt,
		AssigneeID:  req.AssigneeID,
	}
	applyColumn(task, col, time.Now().UTC())

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TaskChanged(constants.ChangeInsert, task))
	if task.CompletedAt != nil {
		s.scheduleStreak(teamID)
	}
	return s.repo.FindByID(ctx, task.ID)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, teamID string) ([]model.Task, error) {
	return s.repo.ListByTeam(ctx, teamID)
}

// UpdateTask applies an inline edit.
func (s *TaskService) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != task.Version {
		return nil, apperrors.ErrOptimisticLock
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		p, ok := constants.ParsePriority(strings.ToLower(*req.Priority))
		if !ok {
			return nil, apperrors.ErrInvalidPriority
		}
		task.Priority = p
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.AssigneeID != nil {
		if *req.AssigneeID == "" {
			task.AssigneeID = nil
		} else {
			task.AssigneeID = req.AssigneeID
		}
		task.Assignee = nil
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TaskChanged(constants.ChangeUpdate, task))
	return s.repo.FindByID(ctx, id)
}

// MoveTask puts the task in another column of its team. Status label and
// colour follow the column; entering a done column stamps the completion
// time at, leaving one clears it.
func (s *TaskService) MoveTask(ctx context.Context, id, columnID string, at time.Time) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	team, err := s.teams.FindByID(ctx, task.TeamID)
	if err != nil {
		return nil, err
	}
	col, ok := team.Column(columnID)
	if !ok {
		return nil, apperrors.ErrUnknownColumn
	}
	if task.ColumnID == col.ID {
		return task, nil
	}

	wasDone := task.CompletedAt != nil
	if at.IsZero() {
		at = time.Now().UTC()
	}
	applyColumn(task, col, at)

	if err := s.repo.Update(ctx, task); err != nil {
		s.logger.WithError(err).WithField("task_id", id).Warn("move rejected")
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TaskChanged(constants.ChangeUpdate, task))
	if wasDone != (task.CompletedAt != nil) {
		s.scheduleStreak(task.TeamID)
	}
	return task, nil
}

func (s *TaskService) scheduleStreak(teamID string) {
	if s.streaks == nil {
		return
	}
	if !s.streaks.Enqueue(teamID) {
		s.logger.WithField("team_id", teamID).Debug("streak recompute already queued")
	}
}

func targetColumn(team *model.Team, columnID string) (model.Column, error) {
	if columnID == "" {
		if len(team.Columns) == 0 {
			return model.Column{}, apperrors.ErrUnknownColumn
		}
		return team.Columns[0], nil
	}
	col, ok := team.Column(columnID)
	if !ok {
		return model.Column{}, apperrors.ErrUnknownColumn
	}
	return col, nil
}

func applyColumn(task *model.Task, col model.Column, at time.Time) {
	task.ColumnID = col.ID
	task.StatusLabel = col.Name
	task.StatusColor = col.Color
	switch {
	case !col.IsDone:
		task.CompletedAt = nil
	case task.CompletedAt == nil:
		done := at.UTC()
		task.CompletedAt = &done
	}
}
