package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirbrooks/flowboard/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			addr := cfg.Listen
			if listen != "" {
				addr = listen
			}
			fmt.Printf("Listening on %s\n", addr)
			return web.NewServer(st).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}
