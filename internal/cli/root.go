// Package cli wires the flowboard command tree.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/board"
	"github.com/amirbrooks/flowboard/internal/config"
	"github.com/amirbrooks/flowboard/internal/state"
	"github.com/amirbrooks/flowboard/internal/storage"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitConflict = 4
	ExitInternal = 10
)

type App struct {
	Root string
	JSON bool
}

// Run executes the CLI and maps errors to exit codes.
func Run(args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, state.ErrNotFound):
			return ExitNotFound
		case errors.Is(err, state.ErrConflict):
			return ExitConflict
		case errors.Is(err, state.ErrInvalid):
			return ExitUsage
		default:
			return ExitInternal
		}
	}
	return ExitOK
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "flowboard",
		Short:         "Local-first kanban boards with per-task flow diagrams",
		SilenceUsage:  true,
		SilenceErrors: false,
		Example: strings.TrimSpace(`
  flowboard board create "Release Plan"
  flowboard column add
  flowboard task add "Cut the branch" --column "To do" --top
  flowboard task move <task> --to "Doing"
  flowboard render
  flowboard share`),
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", state.ErrInvalid, err)
	})

	cmd.PersistentFlags().StringVar(&app.Root, "root", config.DefaultRoot(), "Store root (default: ~/.flowboard or FLOWBOARD_ROOT)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "JSON output")

	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newColumnCmd(app))
	cmd.AddCommand(newTaskCmd(app))
	cmd.AddCommand(newMemberCmd(app))
	cmd.AddCommand(newDiagramCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newShareCmd(app))
	cmd.AddCommand(newServeCmd(app))
	return cmd
}

// openStore opens the configured blob store and state on top of it. The
// returned closer flushes nothing (writes are immediate) but releases the
// SQLite handle.
func (app *App) openStore() (*state.Store, config.Config, func(), error) {
	cfg, err := config.Load(app.Root)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("flowboard: config: %w", err)
	}
	kv, err := storage.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("flowboard: open store: %w", err)
	}
	st, err := state.Open(kv)
	if err != nil {
		_ = kv.Close()
		return nil, cfg, nil, err
	}
	return st, cfg, func() { _ = kv.Close() }, nil
}

// printJSON emits v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// mustCurrent returns the selected board or a not-found error (an empty
// store always yields a default board, so this only fails on a corrupt
// selection).
func mustCurrent(st *state.Store) (board.Board, error) {
	b, ok := st.CurrentBoard()
	if !ok {
		return board.Board{}, fmt.Errorf("%w: no board selected", state.ErrNotFound)
	}
	return b, nil
}

// resolveBoard matches a board by ID, ID prefix, or case-insensitive title.
func resolveBoard(st *state.Store, selector string) (board.Board, error) {
	selector = strings.TrimSpace(selector)
	if b, ok := st.Board(selector); ok {
		return b, nil
	}
	snap := st.Snapshot()
	var matches []board.Board
	for _, b := range snap.Boards {
		if strings.HasPrefix(b.ID, selector) || strings.EqualFold(b.Title, selector) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return board.Board{}, fmt.Errorf("%w: board %q", state.ErrNotFound, selector)
	case 1:
		return matches[0], nil
	default:
		return board.Board{}, fmt.Errorf("%w: board selector %q matches %d boards", state.ErrConflict, selector, len(matches))
	}
}

// resolveColumn matches a column by ID, ID prefix, or case-insensitive
// title. Ambiguous selectors are conflicts, unknown ones not-found.
func resolveColumn(b board.Board, selector string) (board.Column, error) {
	selector = strings.TrimSpace(selector)
	if c, ok := b.Columns[selector]; ok {
		return c, nil
	}
	var matches []board.Column
	for _, id := range b.ColumnOrder {
		c := b.Columns[id]
		if strings.HasPrefix(c.ID, selector) || strings.EqualFold(c.Title, selector) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return board.Column{}, fmt.Errorf("%w: column %q", state.ErrNotFound, selector)
	case 1:
		return matches[0], nil
	default:
		return board.Column{}, fmt.Errorf("%w: column selector %q matches %d columns", state.ErrConflict, selector, len(matches))
	}
}

// resolveTask matches a task by ID, ID prefix, or case-insensitive title
// across the whole board.
func resolveTask(b board.Board, selector string) (board.Task, error) {
	selector = strings.TrimSpace(selector)
	if t, ok := b.Tasks[selector]; ok {
		return t, nil
	}
	var matches []board.Task
	for _, t := range b.Tasks {
		if strings.HasPrefix(t.ID, selector) || strings.EqualFold(t.Title, selector) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return board.Task{}, fmt.Errorf("%w: task %q", state.ErrNotFound, selector)
	case 1:
		return matches[0], nil
	default:
		return board.Task{}, fmt.Errorf("%w: task selector %q matches %d tasks", state.ErrConflict, selector, len(matches))
	}
}

// resolveMember matches a member by ID, ID prefix, initials, or
// case-insensitive name.
func resolveMember(b board.Board, selector string) (board.Member, error) {
	selector = strings.TrimSpace(selector)
	var matches []board.Member
	for _, m := range b.Members {
		if m.ID == selector {
			return m, nil
		}
		if strings.HasPrefix(m.ID, selector) || m.Initials == strings.ToUpper(selector) || strings.EqualFold(m.Name, selector) {
			matches = append(matches, m)
		}
	}
	switch len(matches) {
	case 0:
		return board.Member{}, fmt.Errorf("%w: member %q", state.ErrNotFound, selector)
	case 1:
		return matches[0], nil
	default:
		return board.Member{}, fmt.Errorf("%w: member selector %q matches %d members", state.ErrConflict, selector, len(matches))
	}
}

// columnIndex returns the position of a column in the render order.
func columnIndex(b board.Board, columnID string) int {
	for i, id := range b.ColumnOrder {
		if id == columnID {
			return i
		}
	}
	return -1
}

// taskIndex returns the position of a task within a column.
func taskIndex(b board.Board, columnID, taskID string) int {
	c, ok := b.Columns[columnID]
	if !ok {
		return -1
	}
	for i, id := range c.TaskIDs {
		if id == taskID {
			return i
		}
	}
	return -1
}
