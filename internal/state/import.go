package state

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/diagram"
	"github.com/amirbrooks/flowboard/internal/share"
)

// Export collects the current content of a board plus every diagram bound to
// one of its tasks, walking columnOrder so only reachable tasks contribute.
func (s *Store) Export(boardID string) (share.Payload, error) {
	b, ok := s.Board(boardID)
	if !ok {
		return share.Payload{}, fmt.Errorf("%w: board %q", ErrNotFound, boardID)
	}
	p := share.Payload{Board: b, TaskDiagrams: map[string]diagram.Diagram{}}
	for _, columnID := range b.ColumnOrder {
		for _, t := range b.TasksInOrder(columnID) {
			if t.DiagramID == "" {
				continue
			}
			d, ok, err := s.LoadTaskDiagram(t.ID)
			if err != nil {
				return share.Payload{}, err
			}
			if ok {
				p.TaskDiagrams[t.ID] = d
			}
		}
	}
	return p, nil
}

// Import merges an external payload into the board list. The attempt is
// all-or-nothing: validation and remapping happen before anything is
// persisted, and a rejected payload leaves prior state untouched.
//
// With a title collision and createNew=false the same-titled board is
// overridden in place, keeping its original ID so external references stay
// valid. Otherwise the payload comes in as a new board with a fresh ID,
// regenerated task IDs (task IDs are only unique within a board), rewritten
// column orderings, re-keyed diagrams, and a numbered title when the plain
// title is taken.
func (s *Store) Import(p share.Payload, createNew bool) (board.Board, error) {
	if err := validatePayload(p); err != nil {
		return board.Board{}, err
	}

	s.mu.Lock()
	var (
		merged   board.Board
		diagrams map[string]diagram.Diagram
	)
	if existing, ok := findBoardByTitle(s.app.Boards, p.Board.Title); ok && !createNew {
		merged, diagrams = s.importOverride(p, existing)
	} else {
		merged, diagrams = s.importAsNew(p)
	}
	s.mu.Unlock()

	s.writeDiagrams(diagrams)
	return merged, nil
}

// importOverride replaces the content of the same-titled board, keeping its
// original ID. Task IDs are not remapped, so diagrams land under their
// original keys. Requires s.mu held.
func (s *Store) importOverride(p share.Payload, existing board.Board) (board.Board, map[string]diagram.Diagram) {
	imported := p.Board.Clone()
	imported.ID = existing.ID
	s.update(func(app App) App {
		for i, b := range app.Boards {
			if b.ID == existing.ID {
				app.Boards[i] = imported
			}
		}
		app.CurrentBoardID = existing.ID
		return app
	})
	return imported, p.TaskDiagrams
}

// importAsNew inserts the payload as a wholly new board. Requires s.mu held.
func (s *Store) importAsNew(p share.Payload) (board.Board, map[string]diagram.Diagram) {
	imported := p.Board.Clone()
	imported.ID = board.NewBoardID()

	// Regenerate every task ID: task IDs are only unique within a board, and
	// the payload may collide with tasks in other local boards.
	idMap := make(map[string]string, len(imported.Tasks))
	newTasks := make(map[string]board.Task, len(imported.Tasks))
	for oldID, t := range imported.Tasks {
		newID := board.NewTaskID()
		idMap[oldID] = newID
		t.ID = newID
		newTasks[newID] = t
	}
	imported.Tasks = newTasks
	for colID, c := range imported.Columns {
		ids := make([]string, 0, len(c.TaskIDs))
		for _, oldID := range c.TaskIDs {
			if newID, ok := idMap[oldID]; ok {
				ids = append(ids, newID)
			}
		}
		c.TaskIDs = ids
		imported.Columns[colID] = c
	}

	imported.Title = disambiguateTitle(s.app.Boards, imported.Title)

	// Re-key diagrams to the regenerated task IDs before writing.
	diagrams := make(map[string]diagram.Diagram, len(p.TaskDiagrams))
	for oldID, d := range p.TaskDiagrams {
		if newID, ok := idMap[oldID]; ok {
			diagrams[newID] = d
		}
	}

	s.update(func(app App) App {
		app.Boards = append(app.Boards, imported)
		app.CurrentBoardID = imported.ID
		return app
	})
	return imported, diagrams
}

func (s *Store) writeDiagrams(diagrams map[string]diagram.Diagram) {
	for taskID, d := range diagrams {
		if err := s.SaveTaskDiagram(taskID, d); err != nil {
			log.Printf("state: save imported diagram for task %s: %v", taskID, err)
		}
	}
}

func findBoardByTitle(boards []board.Board, title string) (board.Board, bool) {
	title = strings.TrimSpace(title)
	for _, b := range boards {
		if b.Title == title {
			return b, true
		}
	}
	return board.Board{}, false
}

func validatePayload(p share.Payload) error {
	missing := ""
	switch {
	case p.Board.ID == "":
		missing = "id"
	case p.Board.Title == "":
		missing = "title"
	case p.Board.Columns == nil:
		missing = "columns"
	case p.Board.Tasks == nil:
		missing = "tasks"
	case p.Board.ColumnOrder == nil:
		missing = "columnOrder"
	case p.Board.Members == nil:
		missing = "members"
	}
	if missing != "" {
		return fmt.Errorf("%w: board payload missing %s", ErrInvalid, missing)
	}
	return nil
}

// disambiguateTitle returns the title unchanged when free, otherwise
// "<title> (n+1)" where n is the highest suffix among existing
// "<title> (k)" boards (the bare title counts as 1, so the first duplicate
// becomes "(2)").
func disambiguateTitle(boards []board.Board, title string) string {
	collision := false
	for _, b := range boards {
		if b.Title == title {
			collision = true
			break
		}
	}
	if !collision {
		return title
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(title) + `(?: \((\d+)\))?$`)
	highest := 1
	for _, b := range boards {
		m := re.FindStringSubmatch(b.Title)
		if m == nil {
			continue
		}
		n := 1
		if m[1] != "" {
			if v, err := strconv.Atoi(m[1]); err == nil {
				n = v
			}
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s (%d)", title, highest+1)
}
