package board

import (
	"context"
	"testing"

	model "taskflow.com/taskflow/pkg/models"
)

func TestDragEndOverColumn(t *testing.T) {
	remote := newFakeRemote()
	remote.teams["t1"] = threeColumnTeam("t1")
	remote.tasks["t1"] = []model.Task{task("A", "t1", "todo", base)}
	st := newLoadedStore(t, remote, "t1")

	if !st.DragStart("A") {
		t.Fatal("drag start refused")
	}
	st.DragOver("doing")
	if err := st.DragEnd(context.Background(), "doing"); err != nil {
		t.Fatalf("drag end: %v", err)
	}
	if !equalIDs(st.TasksForColumn("doing"), "A") {
		t.Fatal("task not dropped into column")
	}
	if st.ActiveDrag() != "" {
		t.Fatal("drag still active")
	}
}

func TestDragEndOverTaskUsesItsColumn(t *testing.T) {
	remote := newFakeRemote()
	remote.teams["t1"] = threeColumnTeam("t1")
	remote.tasks["t1"] = []model.Task{task("A", "t1", "todo", base), task("B", "t1", "done", base)}
	st := newLoadedStore(t, remote, "t1")

	st.DragStart("A")
	if err := st.DragEnd(context.Background(), "B"); err != nil {
		t.Fatalf("drag end: %v", err)
	}
	got, _ := st.Task("A")
	if got.ColumnID != "done" {
		t.Fatalf("expected done, got %s", got.ColumnID)
	}
}

func TestDragEndWithoutTargetIsAbandoned(t *testing.T) {
	remote := newFakeRemote()
	remote.teams["t1"] = threeColumnTeam("t1")
	remote.tasks["t1"] = []model.Task{task("A", "t1", "todo", base)}
	st := newLoadedStore(t, remote, "t1")

	for _, over := range []string{"", "nowhere"} {
		st.DragStart("A")
		if err := st.DragEnd(context.Background(), over); err != nil {
			t.Fatalf("drag end %q: %v", over, err)
		}
	}
	if got, _ := st.Task("A"); got.ColumnID != "todo" {
		t.Fatalf("abandoned drag moved task to %s", got.ColumnID)
	}
	if len(remote.updates) != 0 {
		t.Fatal("abandoned drag reached the remote")
	}
	if st.DragStart("ghost") {
		t.Fatal("drag start accepted an unknown task")
	}
}
