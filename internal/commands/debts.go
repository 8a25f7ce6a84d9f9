package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/reminder"
)

const dateLayout = "2006-01-02"

func newDebtsCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Manage recorded debts",
	}

	cmd.AddCommand(
		newDebtsListCommand(g),
		newDebtsAddCommand(g),
		newDebtsPayCommand(g),
		newDebtsDeleteCommand(g),
		newDebtsRemindCommand(g),
	)

	return cmd
}

func newDebtsListCommand(g *globals) *cobra.Command {
	var owner, status, direction string
	var overdue bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := models.DebtFilter{
				OwnerID:   owner,
				Status:    models.DebtStatus(status),
				Direction: models.Direction(direction),
			}
			if filter.Direction != "" && !filter.Direction.Valid() {
				return fmt.Errorf("unknown direction %q", direction)
			}
			if overdue {
				filter.Status = models.StatusPending
				filter.DueBefore = startOfToday(time.Now())
			}

			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			debts, err := l.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printDebts(cmd.OutOrStdout(), debts)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only debts in this owner's ledger")
	cmd.Flags().StringVar(&status, "status", "", "pending or paid")
	cmd.Flags().StringVar(&direction, "direction", "", "lent or borrowed")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only pending debts past their due date")

	return cmd
}

func newDebtsAddCommand(g *globals) *cobra.Command {
	var in ledger.ManualDebt
	var amount, direction, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an informal lend or borrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.Amount, err = money.Parse(amount); err != nil {
				return err
			}
			in.Direction = models.Direction(direction)
			if due != "" {
				if in.DueDate, err = time.ParseInLocation(dateLayout, due, time.Local); err != nil {
					return fmt.Errorf("invalid --due %q, want YYYY-MM-DD: %w", due, err)
				}
			}

			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			debt, err := l.CreateManual(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s with %s (id %s)\n",
				debt.Direction, debt.Amount, debt.CounterpartyName, debt.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.OwnerID, "owner", "", "ledger owner (required)")
	cmd.Flags().StringVar(&in.CounterpartyName, "name", "", "counterparty name (required)")
	cmd.Flags().StringVar(&in.CounterpartyContact, "contact", "", "counterparty contact")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 250.50 (required)")
	cmd.Flags().StringVar(&direction, "direction", string(models.DirectionLent), "lent or borrowed")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (default: the configured due period)")
	cmd.Flags().StringVar(&in.Description, "description", "", "what it was for")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newDebtsPayCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "pay ID",
		Short: "Mark a debt as paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			debt, err := l.MarkPaid(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as paid\n", debt.ID)
			return nil
		},
	}
}

func newDebtsDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := l.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newDebtsRemindCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "remind ID",
		Short: "Print a reminder message for a debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			debt, err := l.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reminder.Compose(debt, time.Now()))
			return nil
		},
	}
}

func printDebts(out io.Writer, debts []*models.DebtRecord) {
	if len(debts) == 0 {
		fmt.Fprintln(out, "No debts found.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tOWNER\tDIRECTION\tCOUNTERPARTY\tAMOUNT\tDUE\tSTATUS")
	for _, d := range debts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.OwnerID, d.Direction, d.CounterpartyName, d.Amount,
			d.DueDate.Local().Format(dateLayout), d.Status)
	}
	tw.Flush()
}

func startOfToday(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
