package diagram

// ChecklistProgress summarizes how much of a checklist is checked. It is a
// derived value: always recomputed from the items, never stored.
type ChecklistProgress string

const (
	ProgressNone     ChecklistProgress = "none"
	ProgressPartial  ChecklistProgress = "partial"
	ProgressComplete ChecklistProgress = "complete"
)

// Progress derives the checklist state from its items. An empty list counts
// as none.
func Progress(items []ChecklistItem) ChecklistProgress {
	if len(items) == 0 {
		return ProgressNone
	}
	checked := 0
	for _, it := range items {
		if it.Checked {
			checked++
		}
	}
	switch {
	case checked == 0:
		return ProgressNone
	case checked < len(items):
		return ProgressPartial
	default:
		return ProgressComplete
	}
}

// ToggleItem flips the checked state of the item at index. Out-of-range
// indices are a no-op.
func ToggleItem(d Diagram, shapeID string, index int, checked bool) Diagram {
	s, ok := d.Shape(shapeID)
	if !ok || s.Type != Checklist || index < 0 || index >= len(s.Items) {
		return d
	}
	items := append([]ChecklistItem(nil), s.Items...)
	items[index].Checked = checked
	return EditText(d, shapeID, s.Text, items)
}
