package board

import (
	"time"

	"taskflow.com/taskflow/pkg/constants"
	model "taskflow.com/taskflow/pkg/models"
)

// SampleTeam is the placeholder board shown when the team does not exist yet.
func SampleTeam() *model.Team {
	id := constants.SampleTeamID
	return &model.Team{
		ID:    id,
		Name:  "Sample Team",
		Type:  constants.TeamGeneral,
		Color: "#6366f1",
		Columns: []model.Column{
			{ID: "todo", TeamID: id, Name: "To Do", Position: 0, Color: "#94a3b8"},
			{ID: "in-progress", TeamID: id, Name: "In Progress", Position: 1, Color: "#3b82f6"},
			{ID: "review", TeamID: id, Name: "Review", Position: 2, Color: "#f59e0b", IsHandoffTarget: true},
			{ID: "done", TeamID: id, Name: "Done", Position: 3, Color: "#22c55e", IsDone: true},
		},
	}
}

func SampleTasks(now time.Time) []model.Task {
	team := constants.SampleTeamID
	mk := func(id, title, column, label string, p constants.Priority, age time.Duration) model.Task {
		created := now.Add(-age)
		return model.Task{
			ID:          constants.SampleIDPrefix + id,
			Title:       title,
			Priority:    p,
			ColumnID:    column,
			TeamID:      team,
			StatusLabel: label,
			Tags:        []string{"sample"},
			CreatedAt:   created,
			UpdatedAt:   created,
		}
	}
	return []model.Task{
		mk("1", "Drag me to In Progress", "todo", "To Do", constants.PriorityMedium, time.Hour),
		mk("2", "Invite your team", "todo", "To Do", constants.PriorityHigh, 2*time.Hour),
		mk("3", "Review the board layout", "review", "Review", constants.PriorityLow, 3*time.Hour),
	}
}
