package board

import model "taskflow.com/taskflow/pkg/models"

type ColumnView struct {
	model.Column
	Tasks []model.Task `json:"tasks"`
}

// Snapshot is the rendered state of a board.
type Snapshot struct {
	Team    *model.Team       `json:"team"`
	Sample  bool              `json:"sample"`
	Columns []ColumnView      `json:"columns"`
	Streak  *model.TeamStreak `json:"streak,omitempty"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Sample: s.sample, Columns: make([]ColumnView, 0, len(s.columns))}
	if s.team != nil {
		team := *s.team
		team.Columns = nil
		snap.Team = &team
	}
	if s.streak != nil {
		st := *s.streak
		snap.Streak = &st
	}
	for _, c := range s.columns {
		snap.Columns = append(snap.Columns, ColumnView{Column: c, Tasks: s.tasksForColumnLocked(c.ID)})
	}
	return snap
}
