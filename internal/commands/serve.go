package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/server"
)

func newServeCommand(g *globals) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger RPC server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				g.cfg.Server.Port = port
			}
			if err := g.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			store, err := server.OpenStore(cmd.Context(), g.cfg.Storage)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer closeStore(store)

			return server.New(g.cfg, store).Run(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")

	return cmd
}
