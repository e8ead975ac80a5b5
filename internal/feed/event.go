package feed

import (
	"context"
	"time"

	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

// ChangeEvent is one row change pushed to subscribers. Task payloads never
// carry the joined assignee, only assignee_id.
type ChangeEvent struct {
	Type           constants.ChangeType `json:"type"`
	Table          string               `json:"table"`
	TeamID         string               `json:"team_id"`
	PreviousTeamID string               `json:"previous_team_id,omitempty"`
	RecordID       string               `json:"record_id"`
	Task           *model.Task          `json:"task,omitempty"`
	At             time.Time            `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// Filter selects events by table and, optionally, by team. An event matches a
// team filter when the row belongs, or belonged before the change, to the team.
type Filter struct {
	Table  string
	TeamID string
}

func (f Filter) Matches(ev ChangeEvent) bool {
	if f.Table != "" && f.Table != ev.Table {
		return false
	}
	if f.TeamID == "" {
		return true
	}
	return ev.TeamID == f.TeamID || ev.PreviousTeamID == f.TeamID
}

func TaskChanged(kind constants.ChangeType, task *model.Task) ChangeEvent {
	row := *task
	row.Assignee = nil
	return ChangeEvent{
		Type:     kind,
		Table:    constants.TableTasks,
		TeamID:   task.TeamID,
		RecordID: task.ID,
		Task:     &row,
		At:       time.Now().UTC(),
	}
}

// TaskHandedOff is an update whose row left previousTeamID.
func TaskHandedOff(task *model.Task, previousTeamID string) ChangeEvent {
	ev := TaskChanged(constants.ChangeUpdate, task)
	ev.PreviousTeamID = previousTeamID
	return ev
}

func TaskDeleted(teamID, taskID string) ChangeEvent {
	return ChangeEvent{
		Type:     constants.ChangeDelete,
		Table:    constants.TableTasks,
		TeamID:   teamID,
		RecordID: taskID,
		At:       time.Now().UTC(),
	}
}

func TeamChanged(kind constants.ChangeType, teamID string) ChangeEvent {
	return ChangeEvent{
		Type:     kind,
		Table:    constants.TableTeams,
		TeamID:   teamID,
		RecordID: teamID,
		At:       time.Now().UTC(),
	}
}
