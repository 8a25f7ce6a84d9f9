package models

import "github.com/mmynk/settleup/internal/money"

// Party identifies one side of a settlement.
type Party struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Settlement is a single directed transfer that clears part of a debtor's
// and a creditor's balance.
type Settlement struct {
	// From is the debtor who pays.
	From Party `json:"from"`

	// To is the creditor who receives.
	To Party `json:"to"`

	// Amount is always positive.
	Amount money.Amount `json:"amount"`
}
