package calculator

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

// ErrUnbalanced means the participants' balances do not net to zero. It
// signals a bug upstream of the solver, not a user error.
var ErrUnbalanced = errors.New("balances do not net to zero")

type balanceEntry struct {
	party   models.Party
	balance money.Amount
	order   int
}

// SolveSettlement nets each participant's share against what they paid and
// returns the greedy transfer set that clears every balance.
//
// Algorithm:
//   - balance = share - paid; creditors have balance < 0, debtors > 0
//   - creditors sorted by balance ascending (largest credit first), debtors
//     descending (largest debt first), ties kept in input order
//   - two-pointer sweep: the current debtor pays the current creditor
//     min(|credit|, debt), advancing whichever side reaches zero
//
// The result has at most n-1 settlements and is deterministic for a given
// input order.
func SolveSettlement(participants []models.Participant) ([]models.Settlement, error) {
	var creditors, debtors []balanceEntry
	var net money.Amount
	for i, p := range participants {
		if !p.AmountPaid.InRange() || !p.ShareAmount.InRange() {
			return nil, fmt.Errorf("%w: participant %q", money.ErrOverflow, p.ID)
		}
		b := p.Balance()
		var ok bool
		if net, ok = money.Add(net, b); !ok {
			return nil, fmt.Errorf("%w: balances across %d participants", money.ErrOverflow, len(participants))
		}
		entry := balanceEntry{party: p.Party(), balance: b, order: i}
		switch {
		case b < 0:
			creditors = append(creditors, entry)
		case b > 0:
			debtors = append(debtors, entry)
		}
	}
	if net != 0 {
		return nil, fmt.Errorf("%w: off by %s across %d participants", ErrUnbalanced, net, len(participants))
	}

	slices.SortStableFunc(creditors, func(a, b balanceEntry) int {
		return cmp.Compare(a.balance, b.balance)
	})
	slices.SortStableFunc(debtors, func(a, b balanceEntry) int {
		return cmp.Compare(b.balance, a.balance)
	})

	var settlements []models.Settlement
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]

		amount := money.Min(c.balance.Abs(), d.balance)
		settlements = append(settlements, models.Settlement{
			From:   d.party,
			To:     c.party,
			Amount: amount,
		})

		c.balance += amount
		d.balance -= amount

		if c.balance == 0 {
			i++
		}
		if d.balance == 0 {
			j++
		}
	}

	return settlements, nil
}
