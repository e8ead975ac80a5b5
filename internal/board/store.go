package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/feed"
	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

var ErrAlreadyWatching = errors.New("board store is already watching a feed")

// Store holds the visible tasks and columns of one team's board. Moves are
// applied locally first and reverted when the remote write fails.
type Store struct {
	remote       Remote
	logger       *log.Entry
	teamID       string
	handoffFirst bool
	now          func() time.Time

	mu       sync.RWMutex
	team     *model.Team
	sample   bool
	loaded   bool
	loadErr  error
	columns  []model.Column
	tasks    []model.Task
	streak   *model.TeamStreak
	dragging string

	// task fetches are numbered so an older result never replaces a newer one
	fetchSeq   uint64
	appliedSeq uint64

	watchMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option func(*Store)

// WithHandoffFirst orders column projections with handed-off tasks first,
// then newest first.
func WithHandoffFirst() Option {
	return func(s *Store) { s.handoffFirst = true }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(remote Remote, teamID string, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		remote: remote,
		teamID: teamID,
		logger: logger.WithFields(log.Fields{"component": "board.store", "team_id": teamID}),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TeamID() string { return s.teamID }

// Load fetches the team and its tasks. A missing team is replaced by the
// sample board. Any other failure is recorded as the store's error state and
// returned; nothing is retried.
func (s *Store) Load(ctx context.Context) error {
	team, err := s.remote.FetchTeam(ctx, s.teamID)
	sample := false
	if errors.Is(err, apperrors.ErrTeamNotFound) {
		team, sample, err = SampleTeam(), true, nil
	}
	if err != nil {
		return s.fail(fmt.Errorf("load team %s: %w", s.teamID, err))
	}

	var tasks []model.Task
	seq := s.beginFetch()
	if sample {
		tasks = SampleTasks(s.now())
	} else if tasks, err = s.remote.FetchTasks(ctx, s.teamID); err != nil {
		return s.fail(fmt.Errorf("load tasks of team %s: %w", s.teamID, err))
	}

	var streak *model.TeamStreak
	if !sample {
		if streak, err = s.remote.RefreshStreak(ctx, s.teamID); err != nil {
			s.logger.WithError(err).Warn("streak refresh failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.team = team
	s.sample = sample
	s.columns = sortedColumns(team.Columns)
	if !s.applyTasksLocked(seq, tasks) {
		s.logger.Debug("tasks changed while loading, keeping the newer fetch")
	}
	s.streak = streak
	s.loaded = true
	s.loadErr = nil
	return nil
}

func (s *Store) fail(err error) error {
	s.logger.WithError(err).Error("board load failed")
	s.mu.Lock()
	s.loadErr = err
	s.mu.Unlock()
	return err
}

// Err returns the error of the last failed load, or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded && s.loadErr == nil
}

func (s *Store) IsSample() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample
}

func (s *Store) Columns() []model.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Column(nil), s.columns...)
}

func (s *Store) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Streak() *model.TeamStreak {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.streak == nil {
		return nil
	}
	st := *s.streak
	return &st
}

// TasksForColumn projects the tasks of one column.
func (s *Store) TasksForColumn(columnID string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksForColumnLocked(columnID)
}

func (s *Store) tasksForColumnLocked(columnID string) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.ColumnID == columnID {
			out = append(out, t)
		}
	}
	if s.handoffFirst {
		sort.SliceStable(out, func(i, j int) bool {
			hi, hj := out[i].IsHandedOff(), out[j].IsHandedOff()
			if hi != hj {
				return hi
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// MoveTask moves the task to targetColumnID. The target must be a column of
// the board. Local and sample tasks are moved in memory only; other moves are
// written remotely and reverted if the write fails.
func (s *Store) MoveTask(ctx context.Context, taskID, targetColumnID string) error {
	s.mu.Lock()
	idx := s.indexOf(taskID)
	if idx < 0 {
		s.mu.Unlock()
		return apperrors.ErrTaskNotFound
	}
	col, ok := s.columnLocked(targetColumnID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("move task %s to %q: %w", taskID, targetColumnID, apperrors.ErrUnknownColumn)
	}
	prev := s.tasks[idx]
	if prev.ColumnID == targetColumnID {
		s.mu.Unlock()
		return nil
	}

	at := s.now()
	moved := prev
	applyColumn(&moved, col, at)
	s.tasks[idx] = moved
	localOnly := prev.IsLocal() || s.sample
	s.mu.Unlock()

	if localOnly {
		return nil
	}

	updated, err := s.remote.UpdateTaskColumn(ctx, taskID, ColumnChange{
		ColumnID:    col.ID,
		StatusLabel: col.Name,
		StatusColor: col.Color,
		At:          at,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	idx = s.indexOf(taskID)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"task_id": taskID,
			"from":    prev.ColumnID,
			"to":      targetColumnID,
		}).Error("move failed, reverting")
		if idx >= 0 {
			t := &s.tasks[idx]
			t.ColumnID = prev.ColumnID
			t.StatusLabel = prev.StatusLabel
			t.StatusColor = prev.StatusColor
			t.CompletedAt = prev.CompletedAt
			t.UpdatedAt = prev.UpdatedAt
		}
		return fmt.Errorf("move task %s: %w", taskID, err)
	}
	if idx >= 0 && updated != nil {
		next := *updated
		if next.Assignee == nil && sameAssignee(next.AssigneeID, s.tasks[idx].AssigneeID) {
			next.Assignee = s.tasks[idx].Assignee
		}
		s.tasks[idx] = next
	}
	return nil
}

// Handoff transfers the task to another team through the remote transaction.
// On success the task leaves this board.
func (s *Store) Handoff(ctx context.Context, taskID string, req HandoffRequest) (*model.Task, error) {
	s.mu.RLock()
	idx := s.indexOf(taskID)
	local := s.sample || (idx >= 0 && s.tasks[idx].IsLocal())
	s.mu.RUnlock()
	if idx < 0 {
		return nil, apperrors.ErrTaskNotFound
	}
	if local {
		return nil, apperrors.ErrLocalTask
	}

	task, err := s.remote.HandoffTask(ctx, taskID, req)
	if err != nil {
		s.logger.WithError(err).WithField("task_id", taskID).Error("handoff failed")
		return nil, fmt.Errorf("hand off task %s: %w", taskID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if task.TeamID != s.teamID {
		s.removeLocked(taskID)
	}
	return task, nil
}

// OnRemoteChange reconciles one change-feed event with local state. Events
// are applied in arrival order.
func (s *Store) OnRemoteChange(ctx context.Context, ev feed.ChangeEvent) error {
	if s.IsSample() {
		return nil
	}
	switch ev.Table {
	case constants.TableTeams:
		if ev.TeamID != s.teamID || ev.Type == constants.ChangeDelete {
			return nil
		}
		return s.reloadColumns(ctx)
	case constants.TableTasks:
	default:
		return nil
	}

	switch ev.Type {
	case constants.ChangeInsert:
		// the pushed row lacks the joined assignee
		return s.refetchTasks(ctx)
	case constants.ChangeUpdate:
		if ev.Task == nil {
			return nil
		}
		s.mu.Lock()
		idx := s.indexOf(ev.RecordID)
		if ev.Task.TeamID != s.teamID {
			if idx >= 0 {
				s.removeLocked(ev.RecordID)
			}
			s.mu.Unlock()
			return nil
		}
		if idx < 0 || !sameAssignee(ev.Task.AssigneeID, s.tasks[idx].AssigneeID) {
			s.mu.Unlock()
			return s.refetchTasks(ctx)
		}
		merged := *ev.Task
		merged.Assignee = s.tasks[idx].Assignee
		s.tasks[idx] = merged
		s.mu.Unlock()
		return nil
	case constants.ChangeDelete:
		s.mu.Lock()
		s.removeLocked(ev.RecordID)
		s.mu.Unlock()
		return nil
	}
	return nil
}

func (s *Store) refetchTasks(ctx context.Context) error {
	seq := s.beginFetch()
	tasks, err := s.remote.FetchTasks(ctx, s.teamID)
	if err != nil {
		s.logger.WithError(err).Error("task refetch failed")
		return fmt.Errorf("refetch tasks of team %s: %w", s.teamID, err)
	}
	s.mu.Lock()
	s.applyTasksLocked(seq, tasks)
	s.mu.Unlock()
	return nil
}

func (s *Store) beginFetch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchSeq++
	return s.fetchSeq
}

// applyTasksLocked installs the result of fetch seq unless a later fetch
// was applied first.
func (s *Store) applyTasksLocked(seq uint64, tasks []model.Task) bool {
	if seq < s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.tasks = tasks
	return true
}

func (s *Store) reloadColumns(ctx context.Context) error {
	team, err := s.remote.FetchTeam(ctx, s.teamID)
	if err != nil {
		s.logger.WithError(err).Error("column reload failed")
		return fmt.Errorf("reload columns of team %s: %w", s.teamID, err)
	}
	s.mu.Lock()
	s.team = team
	s.columns = sortedColumns(team.Columns)
	s.mu.Unlock()
	return nil
}

// Watch subscribes the store to the team's change feed. The subscription is
// released when ctx ends or Close is called.
func (s *Store) Watch(ctx context.Context, source Subscriber) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.cancel != nil {
		return ErrAlreadyWatching
	}

	sub := source.Subscribe(feed.Filter{TeamID: s.teamID})
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go s.consume(wctx, sub, done)
	return nil
}

func (s *Store) consume(ctx context.Context, sub *feed.Subscription, done chan struct{}) {
	defer close(done)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				s.logger.Warn("change feed closed")
				return
			}
			if err := s.OnRemoteChange(ctx, ev); err != nil {
				s.logger.WithError(err).WithField("record_id", ev.RecordID).Warn("change event not applied")
			}
		}
	}
}

// Close stops watching and waits until the subscription is released.
func (s *Store) Close() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Store) indexOf(taskID string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}

func (s *Store) columnLocked(id string) (model.Column, bool) {
	for _, c := range s.columns {
		if c.ID == id {
			return c, true
		}
	}
	return model.Column{}, false
}

func (s *Store) removeLocked(taskID string) {
	out := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != taskID {
			out = append(out, t)
		}
	}
	s.tasks = out
}

func applyColumn(t *model.Task, col model.Column, at time.Time) {
	t.ColumnID = col.ID
	t.StatusLabel = col.Name
	t.StatusColor = col.Color
	t.UpdatedAt = at
	switch {
	case !col.IsDone:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		done := at
		t.CompletedAt = &done
	}
}

func sortedColumns(cols []model.Column) []model.Column {
	out := append([]model.Column(nil), cols...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func sameAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
