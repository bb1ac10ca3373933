package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/state"
)

func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognized due date %q", state.ErrInvalid, s)
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks on the current board",
	}

	var (
		addColumn string
		addDesc   string
		addDue    string
		addTop    bool
	)
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return fmt.Errorf("%w: title is required", state.ErrInvalid)
			}
			due, err := parseDue(addDue)
			if err != nil {
				return err
			}
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			target := b.ColumnOrder[0]
			if addColumn != "" {
				c, err := resolveColumn(b, addColumn)
				if err != nil {
					return err
				}
				target = c.ID
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.AddTask(b, target, board.TaskData{
					Title:       args[0],
					Description: addDesc,
					DueDate:     due,
					AddToTop:    addTop,
				})
			})
			b, err = mustCurrent(st)
			if err != nil {
				return err
			}
			ids := b.Columns[target].TaskIDs
			id := ids[len(ids)-1]
			if addTop {
				id = ids[0]
			}
			t := b.Tasks[id]
			if app.JSON {
				return printJSON(t)
			}
			fmt.Printf("Added task %q (%s)\n", t.Title, t.ID)
			return nil
		},
	}
	add.Flags().StringVar(&addColumn, "column", "", "Target column (default: first column)")
	add.Flags().StringVar(&addDesc, "desc", "", "Task description")
	add.Flags().StringVar(&addDue, "due", "", "Due date (RFC3339 or YYYY-MM-DD)")
	add.Flags().BoolVar(&addTop, "top", false, "Insert at the top of the column")

	var (
		editTitle string
		editDesc  string
		editDue   string
	)
	edit := &cobra.Command{
		Use:   "edit <task>",
		Short: "Edit task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			patch := board.TaskPatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &editTitle
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &editDesc
			}
			if cmd.Flags().Changed("due") {
				due, err := parseDue(editDue)
				if err != nil {
					return err
				}
				patch.DueDate = &due
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.UpdateTask(b, t.ID, patch)
			})
			fmt.Printf("Updated task %s\n", t.ID)
			return nil
		},
	}
	edit.Flags().StringVar(&editTitle, "title", "", "New title")
	edit.Flags().StringVar(&editDesc, "desc", "", "New description")
	edit.Flags().StringVar(&editDue, "due", "", "New due date (empty clears it)")

	var doneUndo bool
	done := &cobra.Command{
		Use:   "done <task>",
		Short: "Mark a task done (or not done with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.ToggleDone(b, t.ID, !doneUndo)
			})
			if doneUndo {
				fmt.Printf("Reopened task %q\n", t.Title)
			} else {
				fmt.Printf("Completed task %q\n", t.Title)
			}
			return nil
		},
	}
	done.Flags().BoolVar(&doneUndo, "undo", false, "Clear the done flag")

	rm := &cobra.Command{
		Use:   "rm <task>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.DeleteTask(b, t.ID, t.ColumnID)
			})
			fmt.Printf("Deleted task %q\n", t.Title)
			return nil
		},
	}

	var (
		moveTo    string
		moveIndex int
	)
	move := &cobra.Command{
		Use:   "move <task> --to <column>",
		Short: "Move a task to another column (or reorder with --index)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			destColumn := t.ColumnID
			if moveTo != "" {
				c, err := resolveColumn(b, moveTo)
				if err != nil {
					return err
				}
				destColumn = c.ID
			}
			destIndex := moveIndex
			if !cmd.Flags().Changed("index") {
				// Default to the end of the destination column.
				destIndex = len(b.Columns[destColumn].TaskIDs)
			}
			drag := board.Drag{
				Type:           board.DragTask,
				DraggedID:      t.ID,
				SourceColumnID: t.ColumnID,
				SourceIndex:    taskIndex(b, t.ColumnID, t.ID),
				DestColumnID:   destColumn,
				DestIndex:      destIndex,
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.ApplyDrag(b, drag)
			})
			fmt.Printf("Moved task %q\n", t.Title)
			return nil
		},
	}
	move.Flags().StringVar(&moveTo, "to", "", "Destination column")
	move.Flags().IntVar(&moveIndex, "index", 0, "Destination index within the column (0-based)")

	due := &cobra.Command{
		Use:   "due <task> [date]",
		Short: "Set a task's due date (no date clears it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			d, err := parseDue(raw)
			if err != nil {
				return err
			}
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.SetDueDate(b, t.ID, d)
			})
			if d == nil {
				fmt.Printf("Cleared due date on %q\n", t.Title)
			} else {
				fmt.Printf("Due %s: %q\n", d.Format("2006-01-02"), t.Title)
			}
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <task> <member>",
		Short: "Assign a member to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			m, err := resolveMember(b, args[1])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.ApplyDrag(b, board.Drag{
					Type:         board.DragMember,
					DraggedID:    m.ID,
					DestColumnID: t.ID,
				})
			})
			fmt.Printf("Assigned %s to %q\n", m.Initials, t.Title)
			return nil
		},
	}

	unassign := &cobra.Command{
		Use:   "unassign <task> <member>",
		Short: "Remove a member from a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			t, err := resolveTask(b, args[0])
			if err != nil {
				return err
			}
			m, err := resolveMember(b, args[1])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.UnassignMember(b, t.ID, m.ID)
			})
			fmt.Printf("Unassigned %s from %q\n", m.Initials, t.Title)
			return nil
		},
	}

	cmd.AddCommand(add, edit, done, rm, move, due, assign, unassign)
	return cmd
}
