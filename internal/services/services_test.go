package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "taskflow.com/taskflow/internal/configs"
	dto "taskflow.com/taskflow/internal/data_models"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/feed"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev feed.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) byType(table string, kind constants.ChangeType) []feed.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []feed.ChangeEvent
	for _, ev := range p.events {
		if ev.Table == table && ev.Type == kind {
			out = append(out, ev)
		}
	}
	return out
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type testServices struct {
	db         *gorm.DB
	logger     *log.Logger
	publisher  *recordingPublisher
	teamRepo   *repository.TeamRepository
	taskRepo   *repository.TaskRepository
	streakRepo *repository.StreakRepository
	teams      *TeamService
	tasks      *TaskService
	handoffs   *HandoffService
	streaks    *StreakService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := setupTestDB(t)
	logger, _ := test.NewNullLogger()
	templates, err := config.LoadBoardTemplates("")
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}

	s := &testServices{
		db:         db,
		logger:     logger,
		publisher:  &recordingPublisher{},
		teamRepo:   repository.NewTeamRepository(db),
		taskRepo:   repository.NewTaskRepository(db),
		streakRepo: repository.NewStreakRepository(db),
	}
	s.teams = NewTeamService(s.teamRepo, templates, s.publisher, logger)
	s.tasks = NewTaskService(s.taskRepo, s.teamRepo, s.publisher, nil, logger)
	s.handoffs = NewHandoffService(repository.NewHandoffRepository(db), s.publisher, nil, logger)
	s.streaks = NewStreakService(s.taskRepo, s.streakRepo, nil, time.UTC, logger)
	return s
}

func (s *testServices) createTeam(t *testing.T, name string, kind constants.TeamType) *model.Team {
	t.Helper()
	team, err := s.teams.CreateTeam(context.Background(), dto.CreateTeamRequest{Name: name, Type: string(kind)})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func (s *testServices) createTask(t *testing.T, teamID, title, column string) *model.Task {
	t.Helper()
	task, err := s.tasks.CreateTask(context.Background(), teamID, dto.CreateTaskRequest{Title: title, ColumnID: column})
	if err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

func TestTeamService_CreateUsesTemplate(t *testing.T) {
	s := newTestServices(t)

	team := s.createTeam(t, "Platform", constants.TeamEngineering)

	stored, err := s.teams.GetTeam(context.Background(), team.ID)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if len(stored.Columns) != 5 || stored.Columns[0].ID != "backlog" || stored.Columns[4].ID != "done" {
		t.Fatalf("unexpected columns %+v", stored.Columns)
	}
	if len(s.publisher.byType(constants.TableTeams, constants.ChangeInsert)) != 1 {
		t.Error("expected a team insert event")
	}
}

func TestTeamService_RejectsUnknownType(t *testing.T) {
	s := newTestServices(t)

	_, err := s.teams.CreateTeam(context.Background(), dto.CreateTeamRequest{Name: "X", Type: "finance"})
	if !errors.Is(err, apperrors.ErrInvalidTeamType) {
		t.Fatalf("expected invalid team type, got %v", err)
	}
}

func TestTeamService_ListOrdersByPositionThenName(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	one, zero := 1, 0

	for _, req := range []dto.CreateTeamRequest{
		{Name: "Zeta"},
		{Name: "Alpha"},
		{Name: "Second", Position: &one},
		{Name: "First", Position: &zero},
	} {
		if _, err := s.teams.CreateTeam(ctx, req); err != nil {
			t.Fatalf("create %s: %v", req.Name, err)
		}
	}

	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"First", "Second", "Alpha", "Zeta"}
	for i, team := range teams {
		if team.Name != want[i] {
			t.Fatalf("position %d: got %s want %s", i, team.Name, want[i])
		}
	}
}

func TestTeamService_ColumnLifecycle(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Ops", constants.TeamOperations)

	name := "Blocked Items"
	updated, err := s.teams.AddColumn(ctx, team.ID, dto.ColumnRequest{Name: &name})
	if err != nil {
		t.Fatalf("add column: %v", err)
	}
	if _, ok := updated.Column("blocked-items"); !ok {
		t.Fatalf("expected slug id, got %+v", updated.Columns)
	}
	if _, err := s.teams.AddColumn(ctx, team.ID, dto.ColumnRequest{ID: "blocked-items", Name: &name}); !errors.Is(err, apperrors.ErrColumnExists) {
		t.Fatalf("expected duplicate column error, got %v", err)
	}

	done := true
	if _, err := s.teams.UpdateColumn(ctx, team.ID, "blocked-items", dto.ColumnRequest{Done: &done}); err != nil {
		t.Fatalf("update column: %v", err)
	}
	if _, err := s.teams.UpdateColumn(ctx, team.ID, "ghost", dto.ColumnRequest{Done: &done}); !errors.Is(err, apperrors.ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}

	stored, _ := s.teams.GetTeam(ctx, team.ID)
	col, _ := stored.Column("blocked-items")
	if !col.IsDone {
		t.Fatal("column edit not stored")
	}
}

func TestTeamService_DeleteColumnCascadesTasks(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Ops", constants.TeamGeneral)
	a := s.createTask(t, team.ID, "a", "review")
	b := s.createTask(t, team.ID, "b", "review")
	keep := s.createTask(t, team.ID, "keep", "todo")

	if err := s.teams.DeleteColumn(ctx, team.ID, "review"); err != nil {
		t.Fatalf("delete column: %v", err)
	}

	tasks, _ := s.tasks.ListTasks(ctx, team.ID)
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Fatalf("expected only %s to remain, got %+v", keep.ID, tasks)
	}
	deletes := s.publisher.byType(constants.TableTasks, constants.ChangeDelete)
	if len(deletes) != 2 {
		t.Fatalf("expected 2 delete events, got %d", len(deletes))
	}
	seen := map[string]bool{deletes[0].RecordID: true, deletes[1].RecordID: true}
	if !seen[a.ID] || !seen[b.ID] {
		t.Fatalf("delete events for wrong tasks: %+v", deletes)
	}
}

func TestTeamService_DeleteLastColumnRefused(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Solo", constants.TeamGeneral)

	for _, id := range []string{"todo", "in-progress", "review"} {
		if err := s.teams.DeleteColumn(ctx, team.ID, id); err != nil {
			t.Fatalf("delete %s: %v", id, err)
		}
	}
	if err := s.teams.DeleteColumn(ctx, team.ID, "done"); !errors.Is(err, apperrors.ErrLastColumn) {
		t.Fatalf("expected last column error, got %v", err)
	}
}

func TestTaskService_CreateValidatesColumnAndPriority(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Web", constants.TeamGeneral)

	if _, err := s.tasks.CreateTask(ctx, team.ID, dto.CreateTaskRequest{Title: "x", ColumnID: "nope"}); !errors.Is(err, apperrors.ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}
	if _, err := s.tasks.CreateTask(ctx, team.ID, dto.CreateTaskRequest{Title: "x", Priority: "asap"}); !errors.Is(err, apperrors.ErrInvalidPriority) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
	if _, err := s.tasks.CreateTask(ctx, "missing", dto.CreateTaskRequest{Title: "x"}); !errors.Is(err, apperrors.ErrTeamNotFound) {
		t.Fatalf("expected team not found, got %v", err)
	}

	task := s.createTask(t, team.ID, "first", "")
	if task.ColumnID != "todo" || task.StatusLabel != "To Do" || task.Priority != constants.PriorityMedium {
		t.Fatalf("unexpected defaults %+v", task)
	}
	if events := s.publisher.byType(constants.TableTasks, constants.ChangeInsert); len(events) != 1 || events[0].Task.Assignee != nil {
		t.Fatalf("expected one insert event without assignee, got %+v", events)
	}
}

func TestTaskService_MoveSetsStatusAndCompletion(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Web", constants.TeamGeneral)
	task := s.createTask(t, team.ID, "ship", "todo")
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	moved, err := s.tasks.MoveTask(ctx, task.ID, "done", at)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.StatusLabel != "Done" || moved.CompletedAt == nil || !moved.CompletedAt.Equal(at) {
		t.Fatalf("unexpected moved task %+v", moved)
	}

	back, err := s.tasks.MoveTask(ctx, task.ID, "todo", at.Add(time.Hour))
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if back.CompletedAt != nil {
		t.Fatal("completion not cleared when leaving done")
	}

	if _, err := s.tasks.MoveTask(ctx, task.ID, "archive", at); !errors.Is(err, apperrors.ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}
}

func TestTaskService_UpdateRejectsStaleVersion(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Web", constants.TeamGeneral)
	task := s.createTask(t, team.ID, "draft", "todo")

	title := "final"
	updated, err := s.tasks.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{Title: &title, Version: &task.Version})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "final" || updated.Version != task.Version+1 {
		t.Fatalf("unexpected update %+v", updated)
	}

	stale := task.Version
	if _, err := s.tasks.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{Title: &title, Version: &stale}); !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Fatalf("expected optimistic lock, got %v", err)
	}

	bad := "whenever"
	if _, err := s.tasks.UpdateTask(ctx, task.ID, dto.UpdateTaskRequest{Priority: &bad}); !errors.Is(err, apperrors.ErrInvalidPriority) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
}

func TestTaskService_ConcurrentSubmissions(t *testing.T) {
	s := newTestServices(t)
	team := s.createTeam(t, "Busy", constants.TeamGeneral)

	const concurrentCount = 50
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)

	for i := 0; i < concurrentCount; i++ {
		go func(idx int) {
			defer wg.Done()
			_, err := s.tasks.CreateTask(context.Background(), team.ID, dto.CreateTaskRequest{Title: fmt.Sprintf("task %d", idx)})
			if err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	tasks, _ := s.tasks.ListTasks(context.Background(), team.ID)
	if len(tasks) != concurrentCount {
		t.Errorf("expected %d tasks, got %d", concurrentCount, len(tasks))
	}
}

func TestHandoffService_TransferLandsInHandoffTarget(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	from := s.createTeam(t, "Design", constants.TeamDesign)
	to := s.createTeam(t, "Engineering", constants.TeamEngineering)
	task := s.createTask(t, from.ID, "Build the mockups", "feedback")

	moved, handoff, err := s.handoffs.Transfer(ctx, task.ID, dto.HandoffRequest{
		ToTeamID:     to.ID,
		Notes:        "ready for build",
		Requirements: []string{"figma link", "copy"},
	}, "user-1")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if moved.TeamID != to.ID || moved.ColumnID != "todo" || moved.StatusLabel != "To Do" {
		t.Fatalf("task not placed in handoff target: %+v", moved)
	}
	if moved.HandoffFromTeamID == nil || *moved.HandoffFromTeamID != from.ID || moved.HandoffStatus != constants.HandoffPending {
		t.Fatalf("handoff metadata missing: %+v", moved)
	}
	if handoff.FromTeamID != from.ID || handoff.CreatedBy != "user-1" || len(handoff.Requirements) != 2 {
		t.Fatalf("unexpected handoff row %+v", handoff)
	}

	events := s.publisher.byType(constants.TableTasks, constants.ChangeUpdate)
	last := events[len(events)-1]
	if last.TeamID != to.ID || last.PreviousTeamID != from.ID {
		t.Fatalf("handoff event lacks team routing: %+v", last)
	}

	var count int64
	s.db.Model(&model.Handoff{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one handoff row, got %d", count)
	}
}

func TestHandoffService_FailedTransferChangesNothing(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	from := s.createTeam(t, "Design", constants.TeamDesign)
	to := s.createTeam(t, "Engineering", constants.TeamEngineering)
	task := s.createTask(t, from.ID, "Build", "briefs")

	_, _, err := s.handoffs.Transfer(ctx, task.ID, dto.HandoffRequest{ToTeamID: to.ID, ToColumnID: "nope"}, "u")
	if !errors.Is(err, apperrors.ErrUnknownColumn) {
		t.Fatalf("expected unknown column, got %v", err)
	}
	if _, _, err := s.handoffs.Transfer(ctx, task.ID, dto.HandoffRequest{ToTeamID: from.ID}, "u"); !errors.Is(err, apperrors.ErrHandoffSameTeam) {
		t.Fatalf("expected same team error, got %v", err)
	}
	if _, _, err := s.handoffs.Transfer(ctx, constants.LocalIDPrefix+"1", dto.HandoffRequest{ToTeamID: to.ID}, "u"); !errors.Is(err, apperrors.ErrLocalTask) {
		t.Fatalf("expected local task error, got %v", err)
	}

	stored, _ := s.tasks.GetTask(ctx, task.ID)
	if stored.TeamID != from.ID || stored.Version != task.Version {
		t.Fatalf("failed handoff modified the task: %+v", stored)
	}
	var count int64
	s.db.Model(&model.Handoff{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no handoff rows, got %d", count)
	}
}

// recordingScheduler remembers which teams were queued for a streak refresh.
type recordingScheduler struct {
	mu    sync.Mutex
	teams []string
}

func (r *recordingScheduler) Enqueue(teamID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = append(r.teams, teamID)
	return true
}

func (r *recordingScheduler) queued(teamID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.teams {
		if id == teamID {
			return true
		}
	}
	return false
}

func TestTeamService_AddColumnWithoutASCIIName(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	team := s.createTeam(t, "Ops", constants.TeamOperations)
	before := len(team.Columns)

	name := "完了"
	if _, err := s.teams.AddColumn(ctx, team.ID, dto.ColumnRequest{Name: &name}); err != nil {
		t.Fatalf("first column: %v", err)
	}
	updated, err := s.teams.AddColumn(ctx, team.ID, dto.ColumnRequest{Name: &name})
	if err != nil {
		t.Fatalf("second column: %v", err)
	}

	if len(updated.Columns) != before+2 {
		t.Fatalf("expected %d columns, got %+v", before+2, updated.Columns)
	}
	seen := map[string]bool{}
	for _, col := range updated.Columns {
		if col.ID == "" {
			t.Fatalf("column stored with empty id: %+v", col)
		}
		if seen[col.ID] {
			t.Fatalf("duplicate column id %q", col.ID)
		}
		seen[col.ID] = true
	}
}

func TestHandoffService_RefreshesSourceTeamStreak(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	sched := &recordingScheduler{}
	handoffs := NewHandoffService(repository.NewHandoffRepository(s.db), s.publisher, sched, s.logger)

	from := s.createTeam(t, "Design", constants.TeamDesign)
	to := s.createTeam(t, "Engineering", constants.TeamEngineering)
	task := s.createTask(t, from.ID, "Final mockups", "delivered")
	if task.CompletedAt == nil {
		t.Fatal("task in a done column should be completed")
	}

	moved, _, err := handoffs.Transfer(ctx, task.ID, dto.HandoffRequest{ToTeamID: to.ID}, "u")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if moved.CompletedAt != nil {
		t.Fatalf("task landed outside a done column but kept its completion: %+v", moved)
	}
	if !sched.queued(from.ID) {
		t.Fatalf("source team streak not refreshed, queued %v", sched.teams)
	}
}
