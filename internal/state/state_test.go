package state

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/storage"
)

func openTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	st, err := Open(kv)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return st, kv
}

func TestOpenEmptyStoreYieldsDefaultBoard(t *testing.T) {
	st, _ := openTestStore(t)
	app := st.Snapshot()
	if len(app.Boards) != 1 {
		t.Fatalf("expected one default board, got %d", len(app.Boards))
	}
	if app.CurrentBoardID != app.Boards[0].ID {
		t.Fatalf("default board not selected")
	}
	if app.Boards[0].Title != board.DefaultBoardTitle {
		t.Fatalf("expected default title, got %q", app.Boards[0].Title)
	}
}

func TestOpenCorruptStateFallsBack(t *testing.T) {
	kv := storage.NewMemory()
	if err := kv.Set(StateKey, []byte("{nope")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st, err := Open(kv)
	if err != nil {
		t.Fatalf("corrupt state should not be fatal: %v", err)
	}
	if app := st.Snapshot(); len(app.Boards) != 1 {
		t.Fatalf("expected default fallback, got %d boards", len(app.Boards))
	}
}

func TestOpenUnknownSelectionFallsBackToFirst(t *testing.T) {
	kv := storage.NewMemory()
	b := board.New("Only")
	blob, _ := json.Marshal(App{Boards: []board.Board{b}, CurrentBoardID: "brd_gone"})
	_ = kv.Set(StateKey, blob)
	st, err := Open(kv)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if app := st.Snapshot(); app.CurrentBoardID != b.ID {
		t.Fatalf("expected selection to fall back to %s, got %s", b.ID, app.CurrentBoardID)
	}
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	st, kv := openTestStore(t)
	st.UpdateCurrentBoard(func(b board.Board) board.Board {
		return board.AddTask(b, b.ColumnOrder[0], board.TaskData{Title: "persisted"})
	})

	st2, err := Open(kv)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b, ok := st2.CurrentBoard()
	if !ok {
		t.Fatalf("no current board after reopen")
	}
	if len(b.Tasks) != 1 {
		t.Fatalf("expected the task to survive reopen, got %d tasks", len(b.Tasks))
	}
}

func TestCreateBoardSelectsIt(t *testing.T) {
	st, _ := openTestStore(t)
	b := st.CreateBoard("Sprint 12")
	app := st.Snapshot()
	if len(app.Boards) != 2 {
		t.Fatalf("expected two boards, got %d", len(app.Boards))
	}
	if app.CurrentBoardID != b.ID {
		t.Fatalf("new board not selected")
	}
}

func TestSelectBoardUnknown(t *testing.T) {
	st, _ := openTestStore(t)
	if err := st.SelectBoard("brd_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBoard(t *testing.T) {
	st, _ := openTestStore(t)
	first := st.Snapshot().Boards[0]

	if err := st.DeleteBoard(first.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("deleting the last board: expected ErrConflict, got %v", err)
	}

	second := st.CreateBoard("Second")
	if err := st.DeleteBoard(second.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	app := st.Snapshot()
	if len(app.Boards) != 1 || app.Boards[0].ID != first.ID {
		t.Fatalf("unexpected boards after delete: %+v", app.Boards)
	}
	// Deleting the current board reselected the survivor.
	if app.CurrentBoardID != first.ID {
		t.Fatalf("expected %s selected, got %s", first.ID, app.CurrentBoardID)
	}

	if err := st.DeleteBoard("brd_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	st, _ := openTestStore(t)
	snap := st.Snapshot()
	snap.Boards[0].Title = "tampered"
	if got := st.Snapshot().Boards[0].Title; got == "tampered" {
		t.Fatalf("snapshot shares state with the store")
	}
}
