package board

import (
	"strings"
	"time"
)

var timeNow = func() time.Time { return time.Now().UTC() }

// AddColumn appends a new empty column titled "New Column".
func AddColumn(b Board) Board {
	col := Column{ID: NewColumnID(), Title: "New Column", TaskIDs: []string{}}
	out := b
	out.Columns = cloneColumns(b.Columns)
	out.Columns[col.ID] = col
	out.ColumnOrder = append(append([]string(nil), b.ColumnOrder...), col.ID)
	return out
}

// RenameColumn replaces the column title verbatim. Rejecting empty titles is
// the caller's responsibility (it falls back to the previous title).
func RenameColumn(b Board, columnID, title string) Board {
	c, ok := b.Columns[columnID]
	if !ok {
		return b
	}
	c.Title = title
	out := b
	out.Columns = cloneColumns(b.Columns)
	out.Columns[columnID] = c
	return out
}

// DeleteColumn removes the column from the board's bookkeeping. Tasks that
// lived in the column stay in the task map and become unreachable from any
// column; exports still carry them.
func DeleteColumn(b Board, columnID string) Board {
	if _, ok := b.Columns[columnID]; !ok {
		return b
	}
	out := b
	out.Columns = cloneColumns(b.Columns)
	delete(out.Columns, columnID)
	out.ColumnOrder = removeString(b.ColumnOrder, columnID)
	return out
}

// TaskData carries the user-supplied fields of a new task.
type TaskData struct {
	Title       string
	Description string
	DueDate     *time.Time
	AddToTop    bool
}

// AddTask creates a task in the given column. A blank title or unknown
// column is a no-op.
func AddTask(b Board, columnID string, data TaskData) Board {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		return b
	}
	col, ok := b.Columns[columnID]
	if !ok {
		return b
	}
	t := Task{
		ID:          NewTaskID(),
		Title:       title,
		Description: data.Description,
		DueDate:     data.DueDate,
		ColumnID:    columnID,
	}
	if data.AddToTop {
		col.TaskIDs = append([]string{t.ID}, col.TaskIDs...)
	} else {
		col.TaskIDs = append(append([]string(nil), col.TaskIDs...), t.ID)
	}
	out := b
	out.Tasks = cloneTasks(b.Tasks)
	out.Tasks[t.ID] = t
	out.Columns = cloneColumns(b.Columns)
	out.Columns[columnID] = col
	return out
}

// TaskPatch is a shallow-merge patch; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     **time.Time
	Done        *bool
	Assignees   *[]string
	DiagramID   *string
}

// UpdateTask shallow-merges the patch onto the task. The task ID is always
// re-asserted; a patch cannot move a task between columns (ApplyDrag does
// that atomically).
func UpdateTask(b Board, taskID string, patch TaskPatch) Board {
	t, ok := b.Tasks[taskID]
	if !ok {
		return b
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Done != nil {
		t = applyDone(t, *patch.Done)
	}
	if patch.Assignees != nil {
		t.Assignees = append([]string(nil), (*patch.Assignees)...)
	}
	if patch.DiagramID != nil {
		t.DiagramID = *patch.DiagramID
	}
	t.ID = taskID
	out := b
	out.Tasks = cloneTasks(b.Tasks)
	out.Tasks[taskID] = t
	return out
}

// DeleteTask removes the task from the task map and from its column's
// ordering. Deleting an already-deleted task is a no-op.
func DeleteTask(b Board, taskID, columnID string) Board {
	_, haveTask := b.Tasks[taskID]
	col, haveCol := b.Columns[columnID]
	if !haveTask && !haveCol {
		return b
	}
	out := b
	if haveTask {
		out.Tasks = cloneTasks(b.Tasks)
		delete(out.Tasks, taskID)
	}
	if haveCol {
		col.TaskIDs = removeString(col.TaskIDs, taskID)
		out.Columns = cloneColumns(b.Columns)
		out.Columns[columnID] = col
	}
	return out
}

// SetDueDate sets or clears (nil) the task due date.
func SetDueDate(b Board, taskID string, due *time.Time) Board {
	return UpdateTask(b, taskID, TaskPatch{DueDate: &due})
}

// ToggleDone marks the task done or not done. Completing stamps CompletedAt
// with the current time; un-completing clears it.
func ToggleDone(b Board, taskID string, done bool) Board {
	return UpdateTask(b, taskID, TaskPatch{Done: &done})
}

// SetZoom clamps the zoom factor into [MinZoom, MaxZoom].
func SetZoom(b Board, zoom float64) Board {
	out := b
	out.Zoom = clampZoom(zoom)
	return out
}

// Rename replaces the board title, falling back to the default for blank
// input.
func Rename(b Board, title string) Board {
	out := b
	out.Title = strings.TrimSpace(title)
	if out.Title == "" {
		out.Title = DefaultBoardTitle
	}
	return out
}

func applyDone(t Task, done bool) Task {
	t.Done = done
	if done {
		now := timeNow()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return t
}

func cloneTasks(in map[string]Task) map[string]Task {
	out := make(map[string]Task, len(in))
	for id, t := range in {
		out[id] = t
	}
	return out
}

func cloneColumns(in map[string]Column) map[string]Column {
	out := make(map[string]Column, len(in))
	for id, c := range in {
		out[id] = c
	}
	return out
}

func removeString(in []string, s string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
