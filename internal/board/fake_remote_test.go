package board

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/pkg/models"
)

var errRemoteDown = errors.New("remote down")

type fakeRemote struct {
	mu sync.Mutex

	teams map[string]*model.Team
	tasks map[string][]model.Task

	teamErr   error
	updateErr error
	handErr   error

	fetchTaskCalls int
	fetchTeamCalls int
	afterFetch     func(call int)
	updates        []ColumnChange
	handoffs       []HandoffRequest
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{teams: map[string]*model.Team{}, tasks: map[string][]model.Task{}}
}

func (f *fakeRemote) FetchTeam(_ context.Context, teamID string) (*model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchTeamCalls++
	if f.teamErr != nil {
		return nil, f.teamErr
	}
	team, ok := f.teams[teamID]
	if !ok {
		return nil, apperrors.ErrTeamNotFound
	}
	cp := *team
	cp.Columns = append([]model.Column(nil), team.Columns...)
	return &cp, nil
}

// FetchTasks runs afterFetch, if set, once the snapshot is taken and before
// it is returned.
func (f *fakeRemote) FetchTasks(_ context.Context, teamID string) ([]model.Task, error) {
	f.mu.Lock()
	f.fetchTaskCalls++
	call := f.fetchTaskCalls
	out := append([]model.Task(nil), f.tasks[teamID]...)
	hook := f.afterFetch
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (f *fakeRemote) UpdateTaskColumn(_ context.Context, taskID string, change ColumnChange) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, change)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for team, tasks := range f.tasks {
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].ColumnID = change.ColumnID
				tasks[i].StatusLabel = change.StatusLabel
				tasks[i].StatusColor = change.StatusColor
				tasks[i].Version++
				f.tasks[team] = tasks
				out := tasks[i]
				out.Assignee = nil
				return &out, nil
			}
		}
	}
	return nil, apperrors.ErrTaskNotFound
}

func (f *fakeRemote) HandoffTask(_ context.Context, taskID string, req HandoffRequest) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handoffs = append(f.handoffs, req)
	if f.handErr != nil {
		return nil, f.handErr
	}
	for team, tasks := range f.tasks {
		for i := range tasks {
			if tasks[i].ID != taskID {
				continue
			}
			moved := tasks[i]
			from := team
			moved.HandoffFromTeamID = &from
			moved.TeamID = req.ToTeamID
			moved.ColumnID = req.ToColumnID
			f.tasks[team] = append(tasks[:i:i], tasks[i+1:]...)
			f.tasks[req.ToTeamID] = append(f.tasks[req.ToTeamID], moved)
			return &moved, nil
		}
	}
	return nil, apperrors.ErrTaskNotFound
}

func (f *fakeRemote) RefreshStreak(_ context.Context, teamID string) (*model.TeamStreak, error) {
	return &model.TeamStreak{TeamID: teamID, CurrentStreak: 2, LongestStreak: 5}, nil
}

func threeColumnTeam(id string) *model.Team {
	return &model.Team{
		ID:   id,
		Name: "Platform",
		Columns: []model.Column{
			{ID: "done", TeamID: id, Name: "Done", Position: 2, Color: "#22c55e", IsDone: true},
			{ID: "todo", TeamID: id, Name: "To Do", Position: 0, Color: "#94a3b8"},
			{ID: "doing", TeamID: id, Name: "Doing", Position: 1, Color: "#3b82f6"},
		},
	}
}

func task(id, team, column string, created time.Time) model.Task {
	return model.Task{ID: id, Title: id, TeamID: team, ColumnID: column, CreatedAt: created, Version: 1}
}
