package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/diagram"
	"github.com/amirbrooks/flowboard/internal/state"
)

func parseShapeType(s string) (diagram.ShapeType, error) {
	switch diagram.ShapeType(strings.ToLower(strings.TrimSpace(s))) {
	case diagram.Rectangle:
		return diagram.Rectangle, nil
	case diagram.Diamond:
		return diagram.Diamond, nil
	case diagram.Start:
		return diagram.Start, nil
	case diagram.End:
		return diagram.End, nil
	case diagram.Note:
		return diagram.Note, nil
	case diagram.Checklist:
		return diagram.Checklist, nil
	}
	return "", fmt.Errorf("%w: unknown shape type %q", state.ErrInvalid, s)
}

// resolveShape matches by ID, ID prefix, or case-insensitive text.
func resolveShape(d diagram.Diagram, selector string) (diagram.Shape, error) {
	selector = strings.TrimSpace(selector)
	var matches []diagram.Shape
	for _, sh := range d.Shapes {
		if sh.ID == selector {
			return sh, nil
		}
		if strings.HasPrefix(sh.ID, selector) || strings.EqualFold(sh.Text, selector) {
			matches = append(matches, sh)
		}
	}
	switch len(matches) {
	case 0:
		return diagram.Shape{}, fmt.Errorf("%w: shape %q", state.ErrNotFound, selector)
	case 1:
		return matches[0], nil
	default:
		return diagram.Shape{}, fmt.Errorf("%w: shape selector %q matches %d shapes", state.ErrConflict, selector, len(matches))
	}
}

// openDiagram resolves a task selector on the current board and opens (or
// creates) its diagram.
func openDiagram(app *App, taskRef string) (*state.Store, string, diagram.Diagram, func(), error) {
	st, _, closeStore, err := app.openStore()
	if err != nil {
		return nil, "", diagram.Diagram{}, nil, err
	}
	b, err := mustCurrent(st)
	if err != nil {
		closeStore()
		return nil, "", diagram.Diagram{}, nil, err
	}
	t, err := resolveTask(b, taskRef)
	if err != nil {
		closeStore()
		return nil, "", diagram.Diagram{}, nil, err
	}
	d, err := st.OpenTaskDiagram(t.ID)
	if err != nil {
		closeStore()
		return nil, "", diagram.Diagram{}, nil, err
	}
	return st, t.ID, d, closeStore, nil
}

func newDiagramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Edit a task's flow diagram",
	}

	show := &cobra.Command{
		Use:   "show <task>",
		Short: "Print a task's diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			if app.JSON {
				return printJSON(d)
			}
			fmt.Printf("%s  %s\n", d.ID, d.Title)
			for _, sh := range d.Shapes {
				fmt.Printf("  %-10s %-36s (%.0f,%.0f) %.0fx%.0f %q\n", sh.Type, sh.ID, sh.X, sh.Y, sh.Width, sh.Height, sh.Text)
				if sh.Type == diagram.Checklist {
					for i, it := range sh.Items {
						mark := " "
						if it.Checked {
							mark = "x"
						}
						fmt.Printf("      [%s] %d. %s\n", mark, i, it.Text)
					}
					fmt.Printf("      progress: %s\n", diagram.Progress(sh.Items))
				}
			}
			for _, c := range d.Connections {
				fmt.Printf("  %-10s %s -> %s\n", "edge", c.From, c.To)
			}
			return nil
		},
	}

	var (
		addType string
		addX    float64
		addY    float64
		addText string
	)
	shapeAdd := &cobra.Command{
		Use:   "shape-add <task>",
		Short: "Add a shape to a task's diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := parseShapeType(addType)
			if err != nil {
				return err
			}
			st, taskID, _, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			d, err := st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.AddShape(d, typ, addX, addY, addText, nil)
			})
			if err != nil {
				return err
			}
			sh := d.Shapes[len(d.Shapes)-1]
			if app.JSON {
				return printJSON(sh)
			}
			fmt.Printf("Added %s shape %s\n", sh.Type, sh.ID)
			return nil
		},
	}
	shapeAdd.Flags().StringVar(&addType, "type", string(diagram.Rectangle), "Shape type (rectangle, diamond, start, end, note, checklist)")
	shapeAdd.Flags().Float64Var(&addX, "x", 100, "X position")
	shapeAdd.Flags().Float64Var(&addY, "y", 100, "Y position")
	shapeAdd.Flags().StringVar(&addText, "text", "", "Shape label (default depends on type)")

	var moveX, moveY float64
	shapeMove := &cobra.Command{
		Use:   "shape-move <task> <shape>",
		Short: "Move a shape",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			sh, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.MoveShape(d, sh.ID, moveX, moveY)
			})
			return err
		},
	}
	shapeMove.Flags().Float64Var(&moveX, "x", 0, "New X position")
	shapeMove.Flags().Float64Var(&moveY, "y", 0, "New Y position")

	var resizeW, resizeH float64
	shapeResize := &cobra.Command{
		Use:   "shape-resize <task> <shape>",
		Short: "Resize a shape (dimensions floor at 30)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			sh, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.ResizeShape(d, sh.ID, resizeW, resizeH)
			})
			return err
		},
	}
	shapeResize.Flags().Float64Var(&resizeW, "width", diagram.MinShapeDim, "New width")
	shapeResize.Flags().Float64Var(&resizeH, "height", diagram.MinShapeDim, "New height")

	var editText string
	shapeEdit := &cobra.Command{
		Use:   "shape-edit <task> <shape>",
		Short: "Change a shape's text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			sh, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.EditText(d, sh.ID, editText, nil)
			})
			return err
		},
	}
	shapeEdit.Flags().StringVar(&editText, "text", "", "New label")

	shapeRm := &cobra.Command{
		Use:   "shape-rm <task> <shape>",
		Short: "Delete a shape and its connections",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			sh, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.DeleteShape(d, sh.ID)
			})
			if err != nil {
				return err
			}
			fmt.Printf("Deleted shape %s\n", sh.ID)
			return nil
		},
	}

	connect := &cobra.Command{
		Use:   "connect <task> <from-shape> <to-shape>",
		Short: "Connect two shapes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			from, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			to, err := resolveShape(d, args[2])
			if err != nil {
				return err
			}
			if from.ID == to.ID {
				return fmt.Errorf("%w: cannot connect a shape to itself", state.ErrInvalid)
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.CreateConnection(d, from.ID, to.ID)
			})
			return err
		},
	}

	disconnect := &cobra.Command{
		Use:   "disconnect <task> <connection>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			var connID string
			for _, c := range d.Connections {
				if c.ID == args[1] || strings.HasPrefix(c.ID, args[1]) {
					connID = c.ID
					break
				}
			}
			if connID == "" {
				return fmt.Errorf("%w: connection %q", state.ErrNotFound, args[1])
			}
			_, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.DeleteConnection(d, connID)
			})
			return err
		},
	}

	var checkUndo bool
	check := &cobra.Command{
		Use:   "check <task> <shape> <item-index>",
		Short: "Check (or uncheck with --undo) a checklist item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[2])
			if err != nil || idx < 0 {
				return fmt.Errorf("%w: item index %q", state.ErrInvalid, args[2])
			}
			st, taskID, d, closeStore, err := openDiagram(app, args[0])
			if err != nil {
				return err
			}
			defer closeStore()
			sh, err := resolveShape(d, args[1])
			if err != nil {
				return err
			}
			if sh.Type != diagram.Checklist {
				return fmt.Errorf("%w: shape %s is not a checklist", state.ErrInvalid, sh.ID)
			}
			if idx >= len(sh.Items) {
				return fmt.Errorf("%w: checklist item %d", state.ErrNotFound, idx)
			}
			d, err = st.UpdateTaskDiagram(taskID, func(d diagram.Diagram) diagram.Diagram {
				return diagram.ToggleItem(d, sh.ID, idx, !checkUndo)
			})
			if err != nil {
				return err
			}
			sh, _ = d.Shape(sh.ID)
			fmt.Printf("Progress: %s\n", diagram.Progress(sh.Items))
			return nil
		},
	}
	check.Flags().BoolVar(&checkUndo, "undo", false, "Uncheck the item")

	cmd.AddCommand(show, shapeAdd, shapeMove, shapeResize, shapeEdit, shapeRm, connect, disconnect, check)
	return cmd
}
