package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

type HandoffRepository struct {
	db *gorm.DB
}

type TransferParams struct {
	TaskID       string
	ToTeamID     string
	ToColumnID   string
	Notes        string
	Requirements []string
	CreatedBy    string
}

func NewHandoffRepository(db *gorm.DB) *HandoffRepository {
	return &HandoffRepository{db: db}
}

// ResolveHandoffColumn picks the column a handed-off task lands in: the
// requested one, else the first handoff target, else the first column.
func ResolveHandoffColumn(team *model.Team, columnID string) (model.Column, error) {
	if columnID != "" {
		col, ok := team.Column(columnID)
		if !ok {
			return model.Column{}, apperrors.ErrUnknownColumn
		}
		return col, nil
	}
	for _, c := range team.Columns {
		if c.IsHandoffTarget {
			return c, nil
		}
	}
	if len(team.Columns) == 0 {
		return model.Column{}, apperrors.ErrUnknownColumn
	}
	return team.Columns[0], nil
}

// Transfer moves the task to another team and records the handoff in one
// transaction. Either both writes commit or neither does.
func (r *HandoffRepository) Transfer(ctx context.Context, p TransferParams) (*model.Task, *model.Handoff, error) {
	var (
		task    model.Task
		handoff model.Handoff
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", p.TaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaskNotFound
			}
			return err
		}
		if task.TeamID == p.ToTeamID {
			return apperrors.ErrHandoffSameTeam
		}

		team, err := findTeam(tx, p.ToTeamID)
		if err != nil {
			return err
		}
		col, err := ResolveHandoffColumn(team, p.ToColumnID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		from := task.TeamID
		task.HandoffFromTeamID = &from
		task.TeamID = team.ID
		task.ColumnID = col.ID
		task.StatusLabel = col.Name
		task.StatusColor = col.Color
		task.HandoffStatus = constants.HandoffPending
		task.HandoffNotes = p.Notes
		task.HandoffRequirements = p.Requirements
		task.HandedOffAt = &now
		if col.IsDone {
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
		if err := updateTask(tx, &task); err != nil {
			return err
		}

		handoff = model.Handoff{
			ID:           uuid.NewString(),
			TaskID:       task.ID,
			FromTeamID:   from,
			ToTeamID:     team.ID,
			ToColumnID:   col.ID,
			Notes:        p.Notes,
			Requirements: p.Requirements,
			CreatedBy:    p.CreatedBy,
			CreatedAt:    now,
		}
		return tx.Create(&handoff).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &task, &handoff, nil
}
