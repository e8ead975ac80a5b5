package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/feed"
	repository "taskflow.com/taskflow/internal/repositories"
	model "taskflow.com/taskflow/pkg/models"
)

type HandoffService struct {
	repo      *repository.HandoffRepository
	publisher feed.Publisher
	streaks   StreakScheduler
	logger    *log.Entry
}

func NewHandoffService(
	repo *repository.HandoffRepository,
	publisher feed.Publisher,
	streaks StreakScheduler,
	logger *log.Logger,
) *HandoffService {
	return &HandoffService{
		repo:      repo,
		publisher: publisher,
		streaks:   streaks,
		logger:    logger.WithField("component", "services.handoff"),
	}
}

// Transfer hands the task over to another team in a single transaction.
func (s *HandoffService) Transfer(ctx context.Context, taskID string, req dto.HandoffRequest, createdBy string) (*model.Task, *model.Handoff, error) {
	if model.IsLocalID(taskID) {
		return nil, nil, apperrors.ErrLocalTask
	}

	task, handoff, err := s.repo.Transfer(ctx, repository.TransferParams{
		TaskID:       taskID,
		ToTeamID:     req.ToTeamID,
		ToColumnID:   req.ToColumnID,
		Notes:        req.Notes,
		Requirements: req.Requirements,
		CreatedBy:    createdBy,
	})
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"task_id":    taskID,
			"to_team_id": req.ToTeamID,
		}).Warn("handoff failed")
		return nil, nil, err
	}

	s.logger.WithFields(log.Fields{
		"task_id":      taskID,
		"from_team_id": handoff.FromTeamID,
		"to_team_id":   handoff.ToTeamID,
		"to_column_id": handoff.ToColumnID,
	}).Info("task handed off")

	publish(ctx, s.publisher, s.logger, feed.TaskHandedOff(task, handoff.FromTeamID))
	if s.streaks != nil {
		// the source team may have lost a completion
		s.streaks.Enqueue(handoff.FromTeamID)
		if task.CompletedAt != nil {
			s.streaks.Enqueue(task.TeamID)
		}
	}
	return task, handoff, nil
}
