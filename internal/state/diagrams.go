package state

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/diagram"
)

// Task diagrams persist under their own per-task keys, decoupled from board
// storage. Their lifecycle is tied to the task only at creation/first open;
// deleting a task leaves the diagram blob behind, and exports re-collect
// diagrams by walking the live board so stale blobs never surface.

// LoadTaskDiagram returns the diagram bound to the task, if one was saved.
func (s *Store) LoadTaskDiagram(taskID string) (diagram.Diagram, bool, error) {
	blob, ok, err := s.kv.Get(DiagramKeyPrefix + taskID)
	if err != nil || !ok {
		return diagram.Diagram{}, false, err
	}
	var d diagram.Diagram
	if err := json.Unmarshal(blob, &d); err != nil {
		log.Printf("state: discarding unreadable diagram for task %s: %v", taskID, err)
		return diagram.Diagram{}, false, nil
	}
	return d, true, nil
}

// SaveTaskDiagram writes the diagram under the task's key.
func (s *Store) SaveTaskDiagram(taskID string, d diagram.Diagram) error {
	blob, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.kv.Set(DiagramKeyPrefix+taskID, blob)
}

// OpenTaskDiagram resolves the deep link ?taskId=&diagramId=: it loads the
// diagram bound to the task, creating and binding a fresh one on first open.
func (s *Store) OpenTaskDiagram(taskID string) (diagram.Diagram, error) {
	owner, ok := s.findTaskOwner(taskID)
	if !ok {
		return diagram.Diagram{}, fmt.Errorf("%w: task %q", ErrNotFound, taskID)
	}
	if d, ok, err := s.LoadTaskDiagram(taskID); err != nil {
		return diagram.Diagram{}, err
	} else if ok {
		return d, nil
	}

	t := owner.Tasks[taskID]
	d := diagram.NewTaskDiagram(t.DiagramID)
	if err := s.SaveTaskDiagram(taskID, d); err != nil {
		return diagram.Diagram{}, err
	}
	if t.DiagramID != d.ID {
		s.Update(func(app App) App {
			for i, b := range app.Boards {
				if b.ID == owner.ID {
					id := d.ID
					app.Boards[i] = board.UpdateTask(b, taskID, board.TaskPatch{DiagramID: &id})
				}
			}
			return app
		})
	}
	return d, nil
}

// UpdateTaskDiagram applies a pure diagram mutator and persists the result.
func (s *Store) UpdateTaskDiagram(taskID string, fn func(diagram.Diagram) diagram.Diagram) (diagram.Diagram, error) {
	d, err := s.OpenTaskDiagram(taskID)
	if err != nil {
		return diagram.Diagram{}, err
	}
	d = fn(d.Clone())
	if err := s.SaveTaskDiagram(taskID, d); err != nil {
		return diagram.Diagram{}, err
	}
	return d, nil
}

func (s *Store) findTaskOwner(taskID string) (board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.app.Boards {
		if _, ok := b.Tasks[taskID]; ok {
			return b, true
		}
	}
	return board.Board{}, false
}
