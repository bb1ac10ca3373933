package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
)

// RenderBoard produces the plain-text board view. Columns follow the board
// order; empty columns are still listed so the layout reads back.
func RenderBoard(b board.Board, openOnly bool) string {
	var sb strings.Builder
	sb.WriteString(b.Title + "\n\n")
	members := map[string]board.Member{}
	for _, m := range b.Members {
		members[m.ID] = m
	}
	for i, colID := range b.ColumnOrder {
		c, ok := b.Columns[colID]
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		tasks := b.TasksInOrder(colID)
		sb.WriteString(fmt.Sprintf("%s (%d)\n", c.Title, len(tasks)))
		for _, t := range tasks {
			if openOnly && t.Done {
				continue
			}
			sb.WriteString("  - " + renderCard(t, members) + "\n")
		}
	}
	if len(b.Members) > 0 {
		sb.WriteString("\nMembers: ")
		parts := make([]string, 0, len(b.Members))
		for _, m := range b.Members {
			parts = append(parts, fmt.Sprintf("%s (%s)", m.Name, m.Initials))
		}
		sb.WriteString(strings.Join(parts, ", ") + "\n")
	}
	return sb.String()
}

func renderCard(t board.Task, members map[string]board.Member) string {
	var sb strings.Builder
	if t.Done {
		sb.WriteString("[x] ")
	} else {
		sb.WriteString("[ ] ")
	}
	sb.WriteString(truncateTitle(t.Title, 60))
	if t.DueDate != nil {
		label := t.DueDate.Format("2006-01-02")
		if !t.Done && t.DueDate.Before(timeNow()) {
			label += " overdue"
		}
		sb.WriteString("  due " + label)
	}
	if len(t.Assignees) > 0 {
		ins := make([]string, 0, len(t.Assignees))
		for _, id := range t.Assignees {
			if m, ok := members[id]; ok {
				ins = append(ins, m.Initials)
			}
		}
		if len(ins) > 0 {
			sb.WriteString("  @" + strings.Join(ins, ",@"))
		}
	}
	if t.DiagramID != "" {
		sb.WriteString("  [diagram]")
	}
	return sb.String()
}

func truncateTitle(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// timeNow is stubbed in tests.
var timeNow = time.Now

func newRenderCmd(app *App) *cobra.Command {
	var openOnly bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the current board as text",
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
				return printJSON(b)
			}
			fmt.Print(RenderBoard(b, openOnly))
			return nil
		},
	}
	cmd.Flags().BoolVar(&openOnly, "open", false, "Hide completed tasks")
	return cmd
}
