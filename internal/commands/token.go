package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/auth"
)

func newTokenCommand(g *globals) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a ledger owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := g.cfg.Auth.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			token, err := auth.NewJWTManager(g.cfg.Auth.JWTSecret, g.cfg.Auth.TokenTTL).Generate(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "user id (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
