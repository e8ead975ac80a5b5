package board

import "context"

// DragStart captures the task being dragged. It reports false when the task
// is not on the board.
func (s *Store) DragStart(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(taskID) < 0 {
		return false
	}
	s.dragging = taskID
	return true
}

// DragOver is a no-op; columns are resolved when the drag ends.
func (s *Store) DragOver(string) {}

func (s *Store) ActiveDrag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragging
}

// DragEnd drops the active task over overID, which is either a column id or
// the id of a task whose column becomes the target. Unknown targets abandon
// the drag.
func (s *Store) DragEnd(ctx context.Context, overID string) error {
	s.mu.Lock()
	active := s.dragging
	s.dragging = ""
	target := ""
	if active != "" && overID != "" {
		if _, ok := s.columnLocked(overID); ok {
			target = overID
		} else if i := s.indexOf(overID); i >= 0 {
			target = s.tasks[i].ColumnID
		}
	}
	s.mu.Unlock()

	if target == "" {
		return nil
	}
	return s.MoveTask(ctx, active, target)
}
