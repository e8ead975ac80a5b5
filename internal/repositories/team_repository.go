package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/pkg/models"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func orderedColumns(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

// Create inserts the team together with its board template.
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	for i := range team.Columns {
		team.Columns[i].TeamID = team.ID
	}

	return r.db.WithContext(ctx).Create(team).Error
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	return findTeam(r.db.WithContext(ctx), id)
}

func findTeam(db *gorm.DB, id string) (*model.Team, error) {
	var team model.Team
	err := db.Preload("Columns", orderedColumns).First(&team, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// List returns teams in sidebar order: positioned teams first, then by name.
func (r *TeamRepository) List(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Preload("Columns", orderedColumns).
		Order("position IS NULL, position asc, name asc").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepository) Update(ctx context.Context, team *model.Team) error {
	team.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.Team{ID: team.ID}).
		Select("name", "type", "color", "position", "updated_at").
		Updates(team)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepository) AddColumn(ctx context.Context, col *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTeam(tx, col.TeamID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&model.Column{}).
			Where("team_id = ? AND id = ?", col.TeamID, col.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrColumnExists
		}
		return tx.Create(col).Error
	})
}

func (r *TeamRepository) UpdateColumn(ctx context.Context, col *model.Column) error {
	res := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("team_id = ? AND id = ?", col.TeamID, col.ID).
		Select("name", "position", "color", "is_handoff_target", "is_done").
		Updates(col)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUnknownColumn
	}
	return nil
}

// DeleteColumn removes the column and, in the same transaction, every task in
// it. The ids of the deleted tasks are returned.
func (r *TeamRepository) DeleteColumn(ctx context.Context, teamID, columnID string) ([]string, error) {
	var deleted []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := findTeam(tx, teamID)
		if err != nil {
			return err
		}
		if _, ok := team.Column(columnID); !ok {
			return apperrors.ErrUnknownColumn
		}
		if len(team.Columns) == 1 {
			return apperrors.ErrLastColumn
		}

		if err := tx.Model(&model.Task{}).
			Where("team_id = ? AND column_id = ?", teamID, columnID).
			Pluck("id", &deleted).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ? AND column_id = ?", teamID, columnID).
			Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("team_id = ? AND id = ?", teamID, columnID).
			Delete(&model.Column{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
