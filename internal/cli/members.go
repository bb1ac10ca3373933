package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/state"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage board members",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a member to the current board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("%w: member name is required", state.ErrInvalid)
			}
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.AddMember(b, name)
			})
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			m := b.Members[len(b.Members)-1]
			if app.JSON {
				return printJSON(m)
			}
			fmt.Printf("Added member %s (%s)\n", m.Name, m.Initials)
			return nil
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List members of the current board",
		Args:  cobra.NoArgs,
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
			if app.JSON {
				return printJSON(b.Members)
			}
			for _, m := range b.Members {
				fmt.Printf("%-4s %-24s %s\n", m.Initials, m.Name, m.ID)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <member>",
		Short: "Remove a member from the current board",
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
			m, err := resolveMember(b, args[0])
			if err != nil {
				return err
			}
			st.UpdateCurrentBoard(func(b board.Board) board.Board {
				return board.RemoveMember(b, m.ID)
			})
			fmt.Printf("Removed member %s\n", m.Name)
			return nil
		},
	}

	cmd.AddCommand(add, ls, rm)
	return cmd
}
