package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/state"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	create := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a board and select it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			title := cfg.DefaultBoardTitle
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				title = args[0]
			}
			b := st.CreateBoard(title)
			if app.JSON {
				return printJSON(b)
			}
			fmt.Printf("Created board %q (%s)\n", b.Title, b.ID)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			snap := st.Snapshot()
			if app.JSON {
				return printJSON(snap)
			}
			for _, b := range snap.Boards {
				marker := " "
				if b.ID == snap.CurrentBoardID {
					marker = "*"
				}
				fmt.Printf("%s %s  %s  (%d columns, %d tasks)\n",
					marker, b.ID, b.Title, len(b.ColumnOrder), len(b.Tasks))
			}
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use <board>",
		Short: "Select the current board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := resolveBoard(st, args[0])
			if err != nil {
				return err
			}
			if err := st.SelectBoard(b.ID); err != nil {
				return err
			}
			fmt.Printf("Selected board %q\n", b.Title)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <title>",
		Short: "Rename the current board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			st.RenameCurrentBoard(args[0])
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			fmt.Printf("Renamed board to %q\n", b.Title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <board>",
		Short: "Delete a board (the last board cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := resolveBoard(st, args[0])
			if err != nil {
				return err
			}
			if err := st.DeleteBoard(b.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted board %q\n", b.Title)
			return nil
		},
	}

	zoom := &cobra.Command{
		Use:   "zoom <factor>",
		Short: "Set the current board's zoom factor (clamped to 0.5..2.0)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			factor, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: zoom factor %q", state.ErrInvalid, args[0])
			}
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.SetZoom(b, factor)
			})
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			fmt.Printf("Zoom set to %g\n", b.Zoom)
			return nil
		},
	}

	cmd.AddCommand(create, ls, use, rename, rm, zoom)
	return cmd
}
