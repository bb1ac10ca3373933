// Package state owns the application state tree: the board list plus the
// currently selected board, loaded from and persisted to a named-blob store.
// Mutations go through pure functions over an immutable snapshot; persistence
// is an effect applied after each successful transition, never part of the
// mutation itself.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/storage"
)

const (
	// StateKey holds the whole board list + selection as one JSON blob.
	StateKey = "kanbanState"
	// DiagramKeyPrefix + taskID holds the diagram bound to that task.
	DiagramKeyPrefix = "taskDiagram_"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// App is the persisted state tree.
type App struct {
	Boards         []board.Board `json:"boards"`
	CurrentBoardID string        `json:"currentBoardId"`
}

// DefaultApp returns the fallback state: a single empty board, selected.
func DefaultApp() App {
	b := board.New("")
	return App{Boards: []board.Board{b}, CurrentBoardID: b.ID}
}

// Store couples an in-memory App snapshot to a blob store. Updates always
// read the previous snapshot and install a new one; the mutex serializes
// them so rapid successive mutations never lose writes.
type Store struct {
	kv storage.KV

	mu  sync.Mutex
	app App
}

// Open loads the persisted state, falling back to the default state when the
// key is absent or the blob does not parse. Corruption is logged, never
// fatal.
func Open(kv storage.KV) (*Store, error) {
	s := &Store{kv: kv}
	blob, ok, err := kv.Get(StateKey)
	if err != nil {
		return nil, fmt.Errorf("state: load: %w", err)
	}
	if !ok {
		s.app = DefaultApp()
		return s, nil
	}
	var app App
	if err := json.Unmarshal(blob, &app); err != nil || len(app.Boards) == 0 {
		log.Printf("state: discarding unreadable saved state: %v", err)
		s.app = DefaultApp()
		return s, nil
	}
	if _, ok := findBoard(app.Boards, app.CurrentBoardID); !ok {
		app.CurrentBoardID = app.Boards[0].ID
	}
	s.app = app
	return s, nil
}

// Snapshot returns a deep copy of the current state tree.
func (s *Store) Snapshot() App {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneApp(s.app)
}

// CurrentBoard returns a copy of the selected board.
func (s *Store) CurrentBoard() (board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := findBoard(s.app.Boards, s.app.CurrentBoardID)
	if !ok {
		return board.Board{}, false
	}
	return b.Clone(), true
}

// Board returns a copy of the board with the given ID.
func (s *Store) Board(id string) (board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := findBoard(s.app.Boards, id)
	if !ok {
		return board.Board{}, false
	}
	return b.Clone(), true
}

// Update applies fn to a snapshot of the state and installs the result. The
// previous snapshot is never mutated; the new one is persisted afterwards
// (write failures are logged and non-fatal, last write wins).
func (s *Store) Update(fn func(App) App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.update(fn)
}

// update requires s.mu held.
func (s *Store) update(fn func(App) App) {
	s.app = fn(cloneApp(s.app))
	s.persist()
}

// UpdateCurrentBoard applies a pure board mutator to whichever board is
// currently selected.
func (s *Store) UpdateCurrentBoard(fn func(board.Board) board.Board) {
	s.Update(func(app App) App {
		for i, b := range app.Boards {
			if b.ID == app.CurrentBoardID {
				app.Boards[i] = fn(b)
				break
			}
		}
		return app
	})
}

// CreateBoard appends a fresh empty board and selects it.
func (s *Store) CreateBoard(title string) board.Board {
	b := board.New(title)
	s.Update(func(app App) App {
		app.Boards = append(app.Boards, b)
		app.CurrentBoardID = b.ID
		return app
	})
	return b
}

// SelectBoard makes the given board current.
func (s *Store) SelectBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := findBoard(s.app.Boards, id); !ok {
		return fmt.Errorf("%w: board %q", ErrNotFound, id)
	}
	s.update(func(app App) App {
		app.CurrentBoardID = id
		return app
	})
	return nil
}

// RenameCurrentBoard retitles the selected board, defaulting blank input.
func (s *Store) RenameCurrentBoard(title string) {
	s.UpdateCurrentBoard(func(b board.Board) board.Board {
		return board.Rename(b, title)
	})
}

// DeleteBoard removes a board. The last remaining board cannot be deleted;
// deleting the current board selects the first remaining one.
func (s *Store) DeleteBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := findBoard(s.app.Boards, id); !ok {
		return fmt.Errorf("%w: board %q", ErrNotFound, id)
	}
	if len(s.app.Boards) <= 1 {
		return fmt.Errorf("%w: cannot delete the last board", ErrConflict)
	}
	s.update(func(app App) App {
		kept := make([]board.Board, 0, len(app.Boards)-1)
		for _, b := range app.Boards {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		app.Boards = kept
		if app.CurrentBoardID == id {
			app.CurrentBoardID = kept[0].ID
		}
		return app
	})
	return nil
}

// FindBoardByTitle returns the first board with the exact title.
func (s *Store) FindBoardByTitle(title string) (board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := findBoardByTitle(s.app.Boards, title)
	if !ok {
		return board.Board{}, false
	}
	return b.Clone(), true
}

func (s *Store) persist() {
	blob, err := json.Marshal(s.app)
	if err != nil {
		log.Printf("state: marshal state: %v", err)
		return
	}
	if err := s.kv.Set(StateKey, blob); err != nil {
		log.Printf("state: save state: %v", err)
	}
}

func findBoard(boards []board.Board, id string) (board.Board, bool) {
	for _, b := range boards {
		if b.ID == id {
			return b, true
		}
	}
	return board.Board{}, false
}

func cloneApp(app App) App {
	out := app
	out.Boards = make([]board.Board, len(app.Boards))
	for i, b := range app.Boards {
		out.Boards[i] = b.Clone()
	}
	return out
}
