package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/share"
	"github.com/amirbrooks/flowboard/internal/state"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export [board]",
		Short: "Export a board and its diagrams to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				b, err = resolveBoard(st, args[0])
				if err != nil {
					return err
				}
			}
			p, err := st.Export(b.ID)
			if err != nil {
				return err
			}
			data, err := share.ExportJSON(p)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = filepath.Join(cfg.ExportDir, share.ExportFilename(b.Title, timeNow(), "json"))
			}
			if err := atomicWriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("flowboard: write export: %w", err)
			}
			fmt.Printf("Exported %q to %s\n", b.Title, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default: export dir with a timestamped name)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var createNew bool
	cmd := &cobra.Command{
		Use:   "import <file-or-share-url>",
		Short: "Import a board from an export file or a share URL",
		Long: strings.TrimSpace(`
Import a board from a JSON export or from a share URL. When a board with
the same title already exists, the default is to replace its contents in
place; --new imports a fresh copy under a disambiguated title instead.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPayload(args[0])
			if err != nil {
				return err
			}
			st, _, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := st.Import(p, createNew)
			if err != nil {
				return err
			}
			if app.JSON {
				return printJSON(b)
			}
			fmt.Printf("Imported board %q (%s)\n", b.Title, b.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&createNew, "new", false, "Import as a new board instead of replacing a same-titled one")
	return cmd
}

// readPayload accepts either a share URL (or bare encoded string) or a path
// to an exported JSON file.
func readPayload(arg string) (share.Payload, error) {
	if strings.Contains(arg, share.BoardParam+"=") || strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		p, ok, err := share.FromURL(arg)
		if err != nil {
			return share.Payload{}, fmt.Errorf("%w: %v", state.ErrInvalid, err)
		}
		if !ok {
			return share.Payload{}, fmt.Errorf("%w: URL carries no board parameter", state.ErrInvalid)
		}
		return p, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return share.Payload{}, fmt.Errorf("%w: %s", state.ErrNotFound, arg)
		}
		return share.Payload{}, fmt.Errorf("flowboard: read import: %w", err)
	}
	p, err := share.ParseJSON(data)
	if err != nil {
		return share.Payload{}, fmt.Errorf("%w: %v", state.ErrInvalid, err)
	}
	return p, nil
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func newShareCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share [board]",
		Short: "Print a share URL for a board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			b, err := mustCurrent(st)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				b, err = resolveBoard(st, args[0])
				if err != nil {
					return err
				}
			}
			p, err := st.Export(b.ID)
			if err != nil {
				return err
			}
			link, err := share.URL(cfg.BaseURL, p)
			if err != nil {
				return err
			}
			fmt.Println(link)
			return nil
		},
	}
	return cmd
}
