// Package board holds the kanban entity model and its mutation operations.
//
// Every operation is a pure function: it takes a Board value, deep-copies the
// parts it touches, and returns a new Board. Callers can therefore keep the
// previous snapshot around (for persistence, comparison, tests) without it
// being mutated underneath them. Operations never fail for normal edge cases
// (unknown IDs, empty titles); they return the input unchanged.
package board

import (
	"strings"
	"time"
)

const (
	DefaultBoardTitle  = "Untitled Board"
	DefaultColumnTitle = "To do"

	MinZoom = 0.5
	MaxZoom = 2.0
)

type Board struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Tasks       map[string]Task   `json:"tasks"`
	Columns     map[string]Column `json:"columns"`
	ColumnOrder []string          `json:"columnOrder"`
	Members     []Member          `json:"members"`
	Zoom        float64           `json:"zoom"`
}

type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"taskIds"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    string     `json:"columnId"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Assignees   []string   `json:"assignees,omitempty"`
	DiagramID   string     `json:"diagramId,omitempty"`
}

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Initials string `json:"initials"`
}

// New returns an empty board with a single default column.
func New(title string) Board {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultBoardTitle
	}
	col := Column{ID: NewColumnID(), Title: DefaultColumnTitle, TaskIDs: []string{}}
	return Board{
		ID:          NewBoardID(),
		Title:       title,
		Tasks:       map[string]Task{},
		Columns:     map[string]Column{col.ID: col},
		ColumnOrder: []string{col.ID},
		Members:     []Member{},
		Zoom:        1,
	}
}

// Clone returns a deep copy of b. Mutators copy lazily where they can; Clone
// is for callers that need full isolation (import remapping, tests).
func (b Board) Clone() Board {
	out := b
	out.Tasks = make(map[string]Task, len(b.Tasks))
	for id, t := range b.Tasks {
		t.Assignees = append([]string(nil), t.Assignees...)
		out.Tasks[id] = t
	}
	// Empty slices stay empty rather than nil so clones serialize the same
	// as their originals ([] vs null matters to the import validator).
	out.Columns = make(map[string]Column, len(b.Columns))
	for id, c := range b.Columns {
		ids := make([]string, len(c.TaskIDs))
		copy(ids, c.TaskIDs)
		c.TaskIDs = ids
		out.Columns[id] = c
	}
	out.ColumnOrder = make([]string, len(b.ColumnOrder))
	copy(out.ColumnOrder, b.ColumnOrder)
	out.Members = make([]Member, len(b.Members))
	copy(out.Members, b.Members)
	return out
}

// Column returns the column and whether it exists.
func (b Board) Column(id string) (Column, bool) {
	c, ok := b.Columns[id]
	return c, ok
}

// Task returns the task and whether it exists.
func (b Board) Task(id string) (Task, bool) {
	t, ok := b.Tasks[id]
	return t, ok
}

// Member returns the member with the given ID, if any.
func (b Board) Member(id string) (Member, bool) {
	for _, m := range b.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// TasksInOrder returns the tasks of a column in render order, skipping IDs
// that have no backing task.
func (b Board) TasksInOrder(columnID string) []Task {
	c, ok := b.Columns[columnID]
	if !ok {
		return nil
	}
	out := make([]Task, 0, len(c.TaskIDs))
	for _, id := range c.TaskIDs {
		if t, ok := b.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
