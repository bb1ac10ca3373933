package diagram

import "testing"

func TestNewTaskDiagramSeedsStartNode(t *testing.T) {
	d := NewTaskDiagram("dgm_x")
	if d.ID != "dgm_x" {
		t.Fatalf("expected supplied ID, got %q", d.ID)
	}
	if d.Title != "Task Diagram" {
		t.Fatalf("expected title 'Task Diagram', got %q", d.Title)
	}
	if len(d.Shapes) != 1 {
		t.Fatalf("expected one seed shape, got %d", len(d.Shapes))
	}
	s := d.Shapes[0]
	if s.Type != Start || s.Text != "Start" || s.Width != 120 || s.Height != 60 {
		t.Fatalf("unexpected seed shape: %+v", s)
	}
}

func TestAddShapeDefaults(t *testing.T) {
	d := NewTaskDiagram("")
	cases := []struct {
		typ  ShapeType
		w, h float64
		text string
	}{
		{Rectangle, 120, 60, "New Shape"},
		{Diamond, 60, 60, "New Shape"},
		{End, 30, 60, "New Shape"},
		{Note, 200, 150, "Double click to edit..."},
		{Checklist, 200, 150, "Checklist Title"},
	}
	for _, c := range cases {
		d = AddShape(d, c.typ, 10, 20, "", nil)
		s := d.Shapes[len(d.Shapes)-1]
		if s.Width != c.w || s.Height != c.h {
			t.Fatalf("%s: expected %vx%v, got %vx%v", c.typ, c.w, c.h, s.Width, s.Height)
		}
		if s.Text != c.text {
			t.Fatalf("%s: expected text %q, got %q", c.typ, c.text, s.Text)
		}
	}
}

func TestEndShapeNarrowsWidthOnly(t *testing.T) {
	d := AddShape(NewTaskDiagram(""), End, 0, 0, "", nil)
	s := d.Shapes[len(d.Shapes)-1]
	if s.Width != 30 || s.Height != 60 {
		t.Fatalf("expected 30x60 end shape, got %vx%v", s.Width, s.Height)
	}
}

func TestAddChecklistSeedsThreeItems(t *testing.T) {
	d := AddShape(NewTaskDiagram(""), Checklist, 0, 0, "", nil)
	s := d.Shapes[len(d.Shapes)-1]
	if len(s.Items) != 3 {
		t.Fatalf("expected three seeded items, got %d", len(s.Items))
	}
	for i, it := range s.Items {
		if it.Checked {
			t.Fatalf("seeded item %d is checked", i)
		}
	}
	// Only checklists get items.
	d = AddShape(d, Rectangle, 0, 0, "", nil)
	if items := d.Shapes[len(d.Shapes)-1].Items; items != nil {
		t.Fatalf("rectangle should carry no items, got %v", items)
	}
}

func TestResizeFloorsAtMinimum(t *testing.T) {
	d := NewTaskDiagram("")
	id := d.Shapes[0].ID
	d = ResizeShape(d, id, 5, 400)
	s, _ := d.Shape(id)
	if s.Width != MinShapeDim || s.Height != 400 {
		t.Fatalf("expected %vx400, got %vx%v", float64(MinShapeDim), s.Width, s.Height)
	}
}

func TestSelfConnectionRejected(t *testing.T) {
	d := NewTaskDiagram("")
	id := d.Shapes[0].ID
	d = CreateConnection(d, id, id)
	if len(d.Connections) != 0 {
		t.Fatalf("self-connection stored: %v", d.Connections)
	}
	d = CreateConnection(d, id, "shp_missing")
	if len(d.Connections) != 0 {
		t.Fatalf("connection to unknown shape stored: %v", d.Connections)
	}
}

func TestDeleteShapeCascadesConnections(t *testing.T) {
	d := NewTaskDiagram("")
	start := d.Shapes[0].ID
	d = AddShape(d, Rectangle, 0, 0, "mid", nil)
	mid := d.Shapes[1].ID
	d = AddShape(d, End, 0, 0, "", nil)
	end := d.Shapes[2].ID
	d = CreateConnection(d, start, mid)
	d = CreateConnection(d, mid, end)
	d = CreateConnection(d, start, end)

	d = DeleteShape(d, mid)
	if len(d.Shapes) != 2 {
		t.Fatalf("expected two shapes, got %d", len(d.Shapes))
	}
	if len(d.Connections) != 1 {
		t.Fatalf("expected one surviving connection, got %v", d.Connections)
	}
	c := d.Connections[0]
	if c.From != start || c.To != end {
		t.Fatalf("wrong connection survived: %+v", c)
	}
}

func TestProgressDerivation(t *testing.T) {
	if got := Progress(nil); got != ProgressNone {
		t.Fatalf("empty list: got %s", got)
	}
	items := []ChecklistItem{{Text: "a"}, {Text: "b"}, {Text: "c"}}
	if got := Progress(items); got != ProgressNone {
		t.Fatalf("unchecked: got %s", got)
	}
	items[0].Checked = true
	if got := Progress(items); got != ProgressPartial {
		t.Fatalf("partial: got %s", got)
	}
	items[1].Checked = true
	items[2].Checked = true
	if got := Progress(items); got != ProgressComplete {
		t.Fatalf("complete: got %s", got)
	}
}

func TestToggleItem(t *testing.T) {
	d := AddShape(NewTaskDiagram(""), Checklist, 0, 0, "", nil)
	id := d.Shapes[len(d.Shapes)-1].ID

	d = ToggleItem(d, id, 1, true)
	s, _ := d.Shape(id)
	if !s.Items[1].Checked || s.Items[0].Checked {
		t.Fatalf("expected only item 1 checked, got %+v", s.Items)
	}
	if got := Progress(s.Items); got != ProgressPartial {
		t.Fatalf("expected partial, got %s", got)
	}

	// Out-of-range toggles change nothing.
	out := ToggleItem(d, id, 9, true)
	s2, _ := out.Shape(id)
	if len(s2.Items) != 3 || s2.Items[2].Checked {
		t.Fatalf("out-of-range toggle mutated items: %+v", s2.Items)
	}
}
