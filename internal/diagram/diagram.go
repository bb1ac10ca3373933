// Package diagram holds the flowchart model bound to tasks and its mutation
// operations. Like the board mutators, every operation is copy-on-write and
// silently no-ops on unknown IDs.
package diagram

import "github.com/amirbrooks/flowboard/internal/ident"

// ShapeType enumerates the node kinds a diagram can hold.
type ShapeType string

const (
	Rectangle ShapeType = "rectangle"
	Diamond   ShapeType = "diamond"
	Start     ShapeType = "start"
	End       ShapeType = "end"
	Note      ShapeType = "note"
	Checklist ShapeType = "checklist"
)

// MinShapeDim is the floor for shape width and height under resizing.
const MinShapeDim = 30

type Diagram struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Shapes      []Shape      `json:"shapes"`
	Connections []Connection `json:"connections"`
}

type Shape struct {
	ID     string          `json:"id"`
	Type   ShapeType       `json:"type"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Text   string          `json:"text"`
	Items  []ChecklistItem `json:"items,omitempty"`
}

type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Connection is a directed edge between two shapes.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

func NewID() string           { return ident.New("dgm_") }
func newShapeID() string      { return ident.New("shp_") }
func newConnectionID() string { return ident.New("con_") }

// NewTaskDiagram builds the diagram created when a task's flow view is
// opened for the first time: a single start node.
func NewTaskDiagram(id string) Diagram {
	if id == "" {
		id = NewID()
	}
	return Diagram{
		ID:    id,
		Title: "Task Diagram",
		Shapes: []Shape{{
			ID:     newShapeID(),
			Type:   Start,
			X:      100,
			Y:      100,
			Width:  120,
			Height: 60,
			Text:   "Start",
		}},
		Connections: []Connection{},
	}
}

// Clone returns a deep copy of d.
func (d Diagram) Clone() Diagram {
	out := d
	out.Shapes = make([]Shape, len(d.Shapes))
	for i, s := range d.Shapes {
		s.Items = append([]ChecklistItem(nil), s.Items...)
		out.Shapes[i] = s
	}
	out.Connections = make([]Connection, len(d.Connections))
	copy(out.Connections, d.Connections)
	return out
}

// Shape returns the shape with the given ID, if any.
func (d Diagram) Shape(id string) (Shape, bool) {
	for _, s := range d.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}

// AddShape appends a new shape of the given type at (x, y). Width, height
// and text default per type; checklists with no items are seeded with three
// unchecked entries.
func AddShape(d Diagram, typ ShapeType, x, y float64, text string, items []ChecklistItem) Diagram {
	s := Shape{
		ID:   newShapeID(),
		Type: typ,
		X:    x,
		Y:    y,
	}
	s.Width, s.Height = defaultSize(typ)
	if text != "" {
		s.Text = text
	} else {
		s.Text = defaultText(typ)
	}
	if typ == Checklist {
		if len(items) == 0 {
			items = []ChecklistItem{
				{Text: "Item 1"},
				{Text: "Item 2"},
				{Text: "Item 3"},
			}
		}
		s.Items = append([]ChecklistItem(nil), items...)
	}
	out := d
	out.Shapes = append(append([]Shape(nil), d.Shapes...), s)
	return out
}

// MoveShape replaces the shape coordinates.
func MoveShape(d Diagram, shapeID string, x, y float64) Diagram {
	return patchShape(d, shapeID, func(s Shape) Shape {
		s.X, s.Y = x, y
		return s
	})
}

// ResizeShape replaces the shape dimensions, flooring both at MinShapeDim
// regardless of which handle was dragged.
func ResizeShape(d Diagram, shapeID string, width, height float64) Diagram {
	return patchShape(d, shapeID, func(s Shape) Shape {
		s.Width = max(width, MinShapeDim)
		s.Height = max(height, MinShapeDim)
		return s
	})
}

// EditText replaces the shape text. For checklists a non-nil items slice
// also replaces the item list (checkbox toggles come through here).
func EditText(d Diagram, shapeID, text string, items []ChecklistItem) Diagram {
	return patchShape(d, shapeID, func(s Shape) Shape {
		s.Text = text
		if s.Type == Checklist && items != nil {
			s.Items = append([]ChecklistItem(nil), items...)
		}
		return s
	})
}

// CreateConnection appends a directed edge. Self-connections are rejected
// and never stored; connecting unknown shapes is a no-op.
func CreateConnection(d Diagram, fromID, toID string) Diagram {
	if fromID == toID {
		return d
	}
	if _, ok := d.Shape(fromID); !ok {
		return d
	}
	if _, ok := d.Shape(toID); !ok {
		return d
	}
	c := Connection{ID: newConnectionID(), From: fromID, To: toID}
	out := d
	out.Connections = append(append([]Connection(nil), d.Connections...), c)
	return out
}

// DeleteShape removes the shape and every connection referencing it.
func DeleteShape(d Diagram, shapeID string) Diagram {
	out := d
	out.Shapes = make([]Shape, 0, len(d.Shapes))
	for _, s := range d.Shapes {
		if s.ID != shapeID {
			out.Shapes = append(out.Shapes, s)
		}
	}
	out.Connections = make([]Connection, 0, len(d.Connections))
	for _, c := range d.Connections {
		if c.From != shapeID && c.To != shapeID {
			out.Connections = append(out.Connections, c)
		}
	}
	return out
}

// DeleteConnection removes the connection by ID.
func DeleteConnection(d Diagram, connectionID string) Diagram {
	out := d
	out.Connections = make([]Connection, 0, len(d.Connections))
	for _, c := range d.Connections {
		if c.ID != connectionID {
			out.Connections = append(out.Connections, c)
		}
	}
	return out
}

func patchShape(d Diagram, shapeID string, fn func(Shape) Shape) Diagram {
	idx := -1
	for i, s := range d.Shapes {
		if s.ID == shapeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d
	}
	out := d
	out.Shapes = append([]Shape(nil), d.Shapes...)
	out.Shapes[idx] = fn(out.Shapes[idx])
	return out
}

func defaultSize(typ ShapeType) (w, h float64) {
	switch typ {
	case Diamond:
		return 60, 60
	case Note, Checklist:
		return 200, 150
	case End:
		// Only the width is narrowed; the height stays the generic 60.
		return 30, 60
	default: // rectangle, start
		return 120, 60
	}
}

func defaultText(typ ShapeType) string {
	switch typ {
	case Start:
		return "Start"
	case Note:
		return "Double click to edit..."
	case Checklist:
		return "Checklist Title"
	default:
		return "New Shape"
	}
}
