package state

import (
	"errors"
	"testing"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/diagram"
)

func storeWithTask(t *testing.T) (*Store, string) {
	t.Helper()
	st, _ := openTestStore(t)
	st.UpdateCurrentBoard(func(b board.Board) board.Board {
		return board.AddTask(b, b.ColumnOrder[0], board.TaskData{Title: "flow"})
	})
	b, _ := st.CurrentBoard()
	return st, b.Columns[b.ColumnOrder[0]].TaskIDs[0]
}

func TestOpenTaskDiagramCreatesAndBinds(t *testing.T) {
	st, taskID := storeWithTask(t)

	d, err := st.OpenTaskDiagram(taskID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(d.Shapes) != 1 || d.Shapes[0].Type != diagram.Start {
		t.Fatalf("expected fresh diagram with a start node, got %+v", d.Shapes)
	}

	// The task now carries the diagram binding.
	b, _ := st.CurrentBoard()
	task := b.Tasks[taskID]
	if task.DiagramID != d.ID {
		t.Fatalf("task not bound: %q vs %q", task.DiagramID, d.ID)
	}

	// A second open returns the saved diagram, not a new one.
	again, err := st.OpenTaskDiagram(taskID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if again.ID != d.ID {
		t.Fatalf("reopen produced a different diagram: %s vs %s", again.ID, d.ID)
	}
}

func TestOpenTaskDiagramUnknownTask(t *testing.T) {
	st, _ := openTestStore(t)
	if _, err := st.OpenTaskDiagram("tsk_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTaskDiagramPersists(t *testing.T) {
	st, taskID := storeWithTask(t)

	d, err := st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
		return diagram.AddShape(d, diagram.End, 300, 100, "", nil)
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(d.Shapes) != 2 {
		t.Fatalf("expected two shapes, got %d", len(d.Shapes))
	}

	saved, ok, err := st.LoadTaskDiagram(taskID)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(saved.Shapes) != 2 {
		t.Fatalf("update not persisted: %d shapes", len(saved.Shapes))
	}
}

func TestLoadTaskDiagramCorruptBlob(t *testing.T) {
	st, taskID := storeWithTask(t)
	if err := st.kv.Set(DiagramKeyPrefix+taskID, []byte("{nope")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, ok, err := st.LoadTaskDiagram(taskID)
	if err != nil {
		t.Fatalf("corrupt diagram should not be an error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt diagram reported as loaded")
	}
}

func TestDiagramSurvivesTaskDeletion(t *testing.T) {
	st, taskID := storeWithTask(t)
	if _, err := st.OpenTaskDiagram(taskID); err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := st.CurrentBoard()
	task := b.Tasks[taskID]
	st.UpdateCurrentBoard(func(b board.Board) board.Board {
		return board.DeleteTask(b, task.ID, task.ColumnID)
	})
	// The blob stays; only a fresh export walk would skip it.
	if _, ok, _ := st.LoadTaskDiagram(taskID); !ok {
		t.Fatalf("diagram blob removed with the task")
	}
}
