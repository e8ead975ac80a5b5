package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	config "taskflow.com/taskflow/internal/configs"
	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/feed"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

type TeamService struct {
	repo      *repository.TeamRepository
	templates config.BoardTemplates
	publisher feed.Publisher
	logger    *log.Entry
}

func NewTeamService(
	repo *repository.TeamRepository,
	templates config.BoardTemplates,
	publisher feed.Publisher,
	logger *log.Logger,
) *TeamService {
	return &TeamService{
		repo:      repo,
		templates: templates,
		publisher: publisher,
		logger:    logger.WithField("component", "services.team"),
	}
}

func parseTeamType(raw string) (constants.TeamType, error) {
	if raw == "" {
		return constants.TeamGeneral, nil
	}
	t := constants.TeamType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", apperrors.ErrInvalidTeamType
	}
	return t, nil
}

// CreateTeam stores a new team whose board starts from the template of its type.
func (s *TeamService) CreateTeam(ctx context.Context, req dto.CreateTeamRequest) (*model.Team, error) {
	teamType, err := parseTeamType(req.Type)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	team := &model.Team{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Type:     teamType,
		Color:    req.Color,
		Position: req.Position,
		Columns:  s.templates.Columns(teamType, id),
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{"team_id": id, "type": teamType}).Info("team created")
	publish(ctx, s.publisher, s.logger, feed.TeamChanged(constants.ChangeInsert, id))
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TeamService) ListTeams(ctx context.Context) ([]model.Team, error) {
	return s.repo.List(ctx)
}

func (s *TeamService) UpdateTeam(ctx context.Context, id string, req dto.UpdateTeamRequest) (*model.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		team.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if team.Type, err = parseTeamType(*req.Type); err != nil {
			return nil, err
		}
	}
	if req.Color != nil {
		team.Color = *req.Color
	}
	if req.Position != nil {
		team.Position = req.Position
	}
	if err := s.repo.Update(ctx, team); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TeamChanged(constants.ChangeUpdate, id))
	return team, nil
}

// AddColumn appends a column to the board, or inserts it at req.Position.
func (s *TeamService) AddColumn(ctx context.Context, teamID string, req dto.ColumnRequest) (*model.Team, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	col := model.Column{
		ID:       req.ID,
		TeamID:   teamID,
		Position: len(team.Columns),
	}
	if req.Name != nil {
		col.Name = strings.TrimSpace(*req.Name)
	}
	if col.ID == "" {
		col.ID = columnSlug(col.Name)
	}
	if col.ID == "" {
		col.ID = "col-" + uuid.NewString()[:8]
	}
	if req.Color != nil {
		col.Color = *req.Color
	}
	if req.Position != nil {
		col.Position = *req.Position
	}
	if req.HandoffTarget != nil {
		col.IsHandoffTarget = *req.HandoffTarget
	}
	if req.Done != nil {
		col.IsDone = *req.Done
	}

	if err := s.repo.AddColumn(ctx, &col); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TeamChanged(constants.ChangeUpdate, teamID))
	return s.repo.FindByID(ctx, teamID)
}

func (s *TeamService) UpdateColumn(ctx context.Context, teamID, columnID string, req dto.ColumnRequest) (*model.Team, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	col, ok := team.Column(columnID)
	if !ok {
		return nil, apperrors.ErrUnknownColumn
	}

	if req.Name != nil {
		col.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		col.Color = *req.Color
	}
	if req.Position != nil {
		col.Position = *req.Position
	}
	if req.HandoffTarget != nil {
		col.IsHandoffTarget = *req.HandoffTarget
	}
	if req.Done != nil {
		col.IsDone = *req.Done
	}

	if err := s.repo.UpdateColumn(ctx, &col); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, feed.TeamChanged(constants.ChangeUpdate, teamID))
	return s.repo.FindByID(ctx, teamID)
}

// DeleteColumn removes the column together with its tasks.
func (s *TeamService) DeleteColumn(ctx context.Context, teamID, columnID string) error {
	deleted, err := s.repo.DeleteColumn(ctx, teamID, columnID)
	if err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"team_id":   teamID,
		"column_id": columnID,
		"tasks":     len(deleted),
	}).Info("column deleted")

	for _, id := range deleted {
		publish(ctx, s.publisher, s.logger, feed.TaskDeleted(teamID, id))
	}
	publish(ctx, s.publisher, s.logger, feed.TeamChanged(constants.ChangeUpdate, teamID))
	return nil
}

func columnSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
