package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/amirbrooks/flowboard/internal/board"
)

func TestRenderBoard(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	b := board.New("Sprint 12")
	colID := b.ColumnOrder[0]
	b = board.AddColumn(b)
	b = board.AddMember(b, "Rae Kim")
	member := b.Members[0]

	past := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	b = board.AddTask(b, colID, board.TaskData{Title: "overdue thing", DueDate: &past})
	b = board.AddTask(b, colID, board.TaskData{Title: "finished thing"})
	ids := b.Columns[colID].TaskIDs
	b = board.ToggleDone(b, ids[1], true)
	b = board.AssignMember(b, ids[0], member.ID)

	out := RenderBoard(b, false)
	for _, want := range []string{
		"Sprint 12",
		"To do (2)",
		"New Column (0)",
		"[ ] overdue thing",
		"due 2026-05-01 overdue",
		"[x] finished thing",
		"@RK",
		"Members: Rae Kim (RK)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	openOnly := RenderBoard(b, true)
	if strings.Contains(openOnly, "finished thing") {
		t.Fatalf("open-only view still lists done tasks:\n%s", openOnly)
	}
}

func TestParseDue(t *testing.T) {
	got, err := parseDue("2026-09-01")
	if err != nil || got == nil {
		t.Fatalf("date only: %v %v", got, err)
	}
	if !got.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}
	if got, err := parseDue(""); err != nil || got != nil {
		t.Fatalf("blank should clear: %v %v", got, err)
	}
	if _, err := parseDue("next tuesday"); err == nil {
		t.Fatalf("expected an error for free-form input")
	}
}
