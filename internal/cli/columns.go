package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
)

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Manage columns on the current board",
	}

	add := &cobra.Command{
		Use:   "add [title]",
		Short: "Append a column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				b = board.AddColumn(b)
				if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
					newID := b.ColumnOrder[len(b.ColumnOrder)-1]
					b = board.RenameColumn(b, newID, args[0])
				}
				return b
			})
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			c := b.Columns[b.ColumnOrder[len(b.ColumnOrder)-1]]
			if app.JSON {
				return printJSON(c)
			}
			fmt.Printf("Added column %q (%s)\n", c.Title, c.ID)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <column> <title>",
		Short: "Rename a column",
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
			c, err := resolveColumn(b, args[0])
			if err != nil {
				return err
			}
			title := args[1]
			if strings.TrimSpace(title) == "" {
				// Blank titles fall back to the previous one.
				title = c.Title
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.RenameColumn(b, c.ID, title)
			})
			fmt.Printf("Renamed column %s to %q\n", c.ID, title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <column>",
		Short: "Delete a column (its tasks stay in the task map)",
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
			c, err := resolveColumn(b, args[0])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.DeleteColumn(b, c.ID)
			})
			fmt.Printf("Deleted column %q\n", c.Title)
			return nil
		},
	}

	var toIndex int
	move := &cobra.Command{
		Use:   "move <column> --to <index>",
		Short: "Reorder a column",
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
			c, err := resolveColumn(b, args[0])
			if err != nil {
				return err
			}
			// Column drags happen within the board, not a column.
			drag := board.Drag{
				Type:           board.DragColumn,
				DraggedID:      c.ID,
				SourceIndex:    columnIndex(b, c.ID),
				DestIndex:      toIndex,
				SourceColumnID: b.ID,
				DestColumnID:   b.ID,
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.ApplyDrag(b, drag)
			})
			fmt.Printf("Moved column %q to position %d\n", c.Title, toIndex)
			return nil
		},
	}
	move.Flags().IntVar(&toIndex, "to", 0, "Destination index (0-based)")
	_ = move.MarkFlagRequired("to")

	cmd.AddCommand(add, rename, rm, move)
	return cmd
}
