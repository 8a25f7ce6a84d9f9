package ledger

import (
	"context"
	"time"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/reminder"
)

// Summary aggregates an owner's outstanding debts.
type Summary struct {
	OwnerID       string       `json:"owner_id"`
	TotalLent     money.Amount `json:"total_lent"`
	TotalBorrowed money.Amount `json:"total_borrowed"`

	// Net is TotalLent - TotalBorrowed; positive means the owner is owed.
	Net money.Amount `json:"net"`

	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
	DueSoon int `json:"due_soon"`
}

// Summary totals the owner's pending debts as of now.
func (l *Ledger) Summary(ctx context.Context, ownerID string, now time.Time) (*Summary, error) {
	debts, err := l.store.ListDebts(ctx, models.DebtFilter{OwnerID: ownerID, Status: models.StatusPending})
	if err != nil {
		return nil, err
	}

	s := &Summary{OwnerID: ownerID}
	for _, d := range debts {
		s.Pending++
		switch d.Direction {
		case models.DirectionLent:
			s.TotalLent += d.Amount
		case models.DirectionBorrowed:
			s.TotalBorrowed += d.Amount
		}
		if reminder.IsOverdue(d, now) {
			s.Overdue++
		}
		if reminder.IsDueSoon(d, now) {
			s.DueSoon++
		}
	}
	s.Net = s.TotalLent - s.TotalBorrowed
	return s, nil
}
