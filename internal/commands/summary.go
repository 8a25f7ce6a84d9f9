package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/reminder"
)

func newSummaryCommand(g *globals) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show pending totals for an owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := l.Summary(cmd.Context(), owner, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Owed to you:  %s%s\n", reminder.CurrencySymbol, s.TotalLent)
			fmt.Fprintf(out, "You owe:      %s%s\n", reminder.CurrencySymbol, s.TotalBorrowed)
			fmt.Fprintf(out, "Net:          %s%s\n", reminder.CurrencySymbol, s.Net)
			fmt.Fprintf(out, "Pending: %d  Overdue: %d  Due soon: %d\n", s.Pending, s.Overdue, s.DueSoon)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ledger owner (required)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
