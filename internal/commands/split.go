package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/models"
)

func newSplitCommand(g *globals) *cobra.Command {
	var owner string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Settle a split described in a YAML file",
		Long: `Validate a split, compute every share and the transfers that settle it.
Unless --dry-run is given the transfers are recorded as debts relative to --owner.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadSplit(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				return previewSplit(out, spec)
			}
			if owner == "" {
				return fmt.Errorf("--owner is required unless --dry-run is set")
			}

			l, closeFn, err := g.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := l.Settle(cmd.Context(), spec, owner)
			if err != nil {
				return err
			}
			if !result.Valid() {
				return reportViolations(out, result.Violations)
			}
			printSplit(out, result.Spec, result.Settlements)
			printRecorded(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ledger owner (participant id)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the settlement without recording debts")

	return cmd
}

func loadSplit(path string) (models.SplitSpecification, error) {
	var spec models.SplitSpecification

	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("reading split file: %w", err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("parsing split file %s: %w", path, err)
	}
	return spec, nil
}

func previewSplit(out io.Writer, spec models.SplitSpecification) error {
	if vs := calculator.ValidateSplit(spec); len(vs) > 0 {
		return reportViolations(out, vs)
	}

	computed := calculator.ComputeShares(spec)
	settlements, err := calculator.SolveSettlement(computed.Participants)
	if err != nil {
		return err
	}
	printSplit(out, computed, settlements)
	return nil
}

func reportViolations(out io.Writer, vs []calculator.Violation) error {
	fmt.Fprintln(out, "Split is invalid:")
	for _, v := range vs {
		fmt.Fprintf(out, "  - %s\n", v.Message)
	}
	return &calculator.ValidationError{Violations: vs}
}

func printSplit(out io.Writer, spec models.SplitSpecification, settlements []models.Settlement) {
	fmt.Fprintf(out, "%s (%s, total %s)\n\n", spec.Description, spec.Strategy, spec.TotalAmount)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tSHARE\tBALANCE")
	for _, p := range spec.Participants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.AmountPaid, p.ShareAmount, p.Balance())
	}
	tw.Flush()

	fmt.Fprintln(out)
	if len(settlements) == 0 {
		fmt.Fprintln(out, "Everyone is settled up.")
		return
	}
	fmt.Fprintln(out, "Settlements:")
	for _, s := range settlements {
		fmt.Fprintf(out, "  %s -> %s: %s\n", s.From.Name, s.To.Name, s.Amount)
	}
}

func printRecorded(out io.Writer, result *ledger.SplitResult) {
	if len(result.Debts) == 0 {
		return
	}
	fmt.Fprintf(out, "\nRecorded %d debts (split %s)\n", len(result.Debts), result.SplitID)
}
