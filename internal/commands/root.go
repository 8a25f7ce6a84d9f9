// Package commands implements the settleup CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/server"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/logging"
)

// Version is set at build time.
var Version = "dev"

type globals struct {
	configPath string
	cfg        *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "settleup",
		Short:   "Settle shared expenses and track who owes whom",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if err := logging.Configure(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			g.cfg = cfg
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ./settleup.yaml if present)")

	rootCmd.AddCommand(
		newServeCommand(g),
		newSplitCommand(g),
		newDebtsCommand(g),
		newSummaryCommand(g),
		newTokenCommand(g),
	)

	return rootCmd
}

// openLedger opens the configured store. The caller must call close.
func (g *globals) openLedger(ctx context.Context) (l *ledger.Ledger, closeFn func(), err error) {
	store, err := server.OpenStore(ctx, g.cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	l = ledger.New(store, ledger.WithDueAfter(g.cfg.Ledger.DueAfter))
	return l, func() { closeStore(store) }, nil
}

func closeStore(store storage.Store) {
	_ = store.Close()
}
