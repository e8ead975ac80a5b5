package services

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"taskflow.com/taskflow/internal/cache"
	repository "taskflow.com/taskflow/internal/repositories"
	model "taskflow.com/taskflow/pkg/models"
)

const activityDateLayout = "2006-01-02"

type StreakService struct {
	tasks  *repository.TaskRepository
	repo   *repository.StreakRepository
	cache  cache.StreakCache
	loc    *time.Location
	now    func() time.Time
	logger *log.Entry
}

// NewStreakService counts days in loc. cache may be nil.
func NewStreakService(
	tasks *repository.TaskRepository,
	repo *repository.StreakRepository,
	streakCache cache.StreakCache,
	loc *time.Location,
	logger *log.Logger,
) *StreakService {
	if loc == nil {
		loc = time.UTC
	}
	return &StreakService{
		tasks:  tasks,
		repo:   repo,
		cache:  streakCache,
		loc:    loc,
		now:    time.Now,
		logger: logger.WithField("component", "services.streak"),
	}
}

// GetStreak serves the record from the cache when possible.
func (s *StreakService) GetStreak(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	if s.cache != nil {
		streak, err := s.cache.Get(ctx, teamID)
		if err == nil {
			return streak, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WithError(err).WithField("team_id", teamID).Warn("streak cache read failed")
		}
	}

	streak, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, streak)
	return streak, nil
}

// Recompute folds today's completions into the team's streak. A concurrent
// writer bumping the version causes one retry against the fresh row.
func (s *StreakService) Recompute(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		streak, err := s.recomputeOnce(ctx, teamID)
		if err == nil {
			s.store(ctx, streak)
			return streak, nil
		}
		if !errors.Is(err, repository.ErrOptimisticLock) {
			return nil, err
		}
		lastErr = err
		s.logger.WithField("team_id", teamID).Debug("streak version conflict, retrying")
	}
	return nil, lastErr
}

func (s *StreakService) recomputeOnce(ctx context.Context, teamID string) (*model.TeamStreak, error) {
	current, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	today, err := s.tasks.CountCompletedBetween(ctx, teamID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if today == 0 {
		return current, nil
	}
	total, err := s.tasks.CountCompleted(ctx, teamID)
	if err != nil {
		return nil, err
	}

	next := AdvanceStreak(*current, now, today, total)
	if next == *current {
		return current, nil
	}
	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *StreakService) store(ctx context.Context, streak *model.TeamStreak) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, streak); err != nil {
		s.logger.WithError(err).WithField("team_id", streak.TeamID).Warn("streak cache write failed")
	}
}

// AdvanceStreak returns the record after completedToday completions on the
// calendar day of now. Activity yesterday extends the streak by one, activity
// earlier restarts it, and a second call on the same day leaves it as is.
func AdvanceStreak(streak model.TeamStreak, now time.Time, completedToday, totalCompleted int) model.TeamStreak {
	if completedToday == 0 {
		return streak
	}

	today := now.Format(activityDateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(activityDateLayout)

	switch streak.LastActivityDate {
	case today:
		if streak.CurrentStreak == 0 {
			streak.CurrentStreak = 1
		}
	case yesterday:
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastActivityDate = today
	streak.TotalCompleted = totalCompleted
	return streak
}
