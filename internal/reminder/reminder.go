// Package reminder turns debt records into human-readable reminder messages.
//
// Every function here is pure: no ledger access, no clock reads.
package reminder

import (
	"fmt"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// CurrencySymbol prefixes every amount in a message.
const CurrencySymbol = "₹"

// DueSoonDays is the window in which a pending debt counts as due soon.
const DueSoonDays = 3

// Compose returns the reminder text for debt as of now.
//
// Lent debts address the counterparty as the one who owes; borrowed debts
// use first-person phrasing. A debt whose due date has passed says how many
// days ago it was due; anything due today or later is phrased as due today.
func Compose(debt *models.DebtRecord, now time.Time) string {
	overdue := DaysOverdue(debt.DueDate, now)

	var due string
	if overdue > 0 {
		due = fmt.Sprintf("This payment was due %d %s ago.", overdue, plural(overdue, "day", "days"))
	} else {
		due = "This payment is due today."
	}

	amount := CurrencySymbol + debt.Amount.String()
	if debt.Direction == models.DirectionBorrowed {
		return fmt.Sprintf("Hi %s! This is a reminder that I owe you %s for %q. %s I will settle this amount soon. Thank you for your patience!",
			debt.CounterpartyName, amount, debt.Description, due)
	}
	return fmt.Sprintf("Hi %s! This is a friendly reminder that you owe %s for %q. %s Please get in touch if you need more time. Thank you!",
		debt.CounterpartyName, amount, debt.Description, due)
}

// DaysOverdue is the number of calendar days from due to now, evaluated in
// now's location. It is negative when the due date is in the future.
func DaysOverdue(due, now time.Time) int {
	loc := now.Location()
	d := due.In(loc)
	dueDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(today.Sub(dueDay) / (24 * time.Hour))
}

// DaysUntilDue is the negation of DaysOverdue.
func DaysUntilDue(due, now time.Time) int {
	return -DaysOverdue(due, now)
}

// IsOverdue reports whether a pending debt is past its due date.
func IsOverdue(debt *models.DebtRecord, now time.Time) bool {
	return debt.IsPending() && DaysOverdue(debt.DueDate, now) > 0
}

// IsDueSoon reports whether a pending debt falls due within DueSoonDays,
// today included. Overdue debts are not due soon.
func IsDueSoon(debt *models.DebtRecord, now time.Time) bool {
	if !debt.IsPending() {
		return false
	}
	days := DaysUntilDue(debt.DueDate, now)
	return days >= 0 && days <= DueSoonDays
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
