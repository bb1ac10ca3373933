package board

// DragType discriminates what is being dragged.
type DragType string

const (
	DragColumn DragType = "column"
	DragTask   DragType = "task"
	DragMember DragType = "member"
)

// Drag describes a completed drag gesture. For member drops DestColumnID
// carries the target task ID and the indices are ignored.
type Drag struct {
	Type           DragType `json:"type"`
	DraggedID      string   `json:"draggedId"`
	SourceColumnID string   `json:"sourceColumnId"`
	SourceIndex    int      `json:"sourceIndex"`
	DestColumnID   string   `json:"destColumnId"`
	DestIndex      int      `json:"destIndex"`
}

// ApplyDrag translates a drag gesture into a new board state. Malformed
// drags (unknown IDs, out-of-range indices, unknown type) return the board
// unchanged; a drag is never an error.
func ApplyDrag(b Board, d Drag) Board {
	// Dropping something back where it came from changes nothing.
	if d.Type != DragMember && d.SourceColumnID == d.DestColumnID && d.SourceIndex == d.DestIndex {
		return b
	}
	switch d.Type {
	case DragColumn:
		return dragColumn(b, d)
	case DragTask:
		if d.SourceColumnID == d.DestColumnID {
			return reorderTask(b, d)
		}
		return moveTask(b, d)
	case DragMember:
		return AssignMember(b, d.DestColumnID, d.DraggedID)
	default:
		return b
	}
}

func dragColumn(b Board, d Drag) Board {
	if d.SourceIndex < 0 || d.SourceIndex >= len(b.ColumnOrder) {
		return b
	}
	if b.ColumnOrder[d.SourceIndex] != d.DraggedID {
		return b
	}
	out := b
	out.ColumnOrder = splice(b.ColumnOrder, d.SourceIndex, d.DestIndex, d.DraggedID)
	return out
}

func reorderTask(b Board, d Drag) Board {
	col, ok := b.Columns[d.SourceColumnID]
	if !ok || d.SourceIndex < 0 || d.SourceIndex >= len(col.TaskIDs) {
		return b
	}
	if col.TaskIDs[d.SourceIndex] != d.DraggedID {
		return b
	}
	col.TaskIDs = splice(col.TaskIDs, d.SourceIndex, d.DestIndex, d.DraggedID)
	out := b
	out.Columns = cloneColumns(b.Columns)
	out.Columns[d.SourceColumnID] = col
	return out
}

// moveTask rewrites both columns and the task's owning column in a single
// resulting board, so the task never appears in two taskIds lists at once.
func moveTask(b Board, d Drag) Board {
	t, ok := b.Tasks[d.DraggedID]
	if !ok {
		return b
	}
	src, ok := b.Columns[d.SourceColumnID]
	if !ok {
		return b
	}
	dst, ok := b.Columns[d.DestColumnID]
	if !ok {
		return b
	}
	if !containsString(src.TaskIDs, d.DraggedID) {
		return b
	}

	src.TaskIDs = removeString(src.TaskIDs, d.DraggedID)
	dst.TaskIDs = insertAt(dst.TaskIDs, d.DestIndex, d.DraggedID)
	t.ColumnID = d.DestColumnID

	out := b
	out.Tasks = cloneTasks(b.Tasks)
	out.Tasks[d.DraggedID] = t
	out.Columns = cloneColumns(b.Columns)
	out.Columns[d.SourceColumnID] = src
	out.Columns[d.DestColumnID] = dst
	return out
}

// splice removes the value at from and reinserts it at to; to is relative to
// the slice after removal, matching array splice semantics.
func splice(in []string, from, to int, v string) []string {
	without := append(append([]string(nil), in[:from]...), in[from+1:]...)
	return insertAt(without, to, v)
}

func insertAt(in []string, i int, v string) []string {
	if i < 0 {
		i = 0
	}
	if i > len(in) {
		i = len(in)
	}
	out := make([]string, 0, len(in)+1)
	out = append(out, in[:i]...)
	out = append(out, v)
	return append(out, in[i:]...)
}

func containsString(in []string, v string) bool {
	for _, s := range in {
		if s == v {
			return true
		}
	}
	return false
}
