package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/money"
)

// SplitStrategy is the rule used to compute each participant's share.
type SplitStrategy string

const (
	// StrategyEqual divides the total evenly, leftover minor units going to
	// the first participants in input order.
	StrategyEqual SplitStrategy = "equal"

	// StrategyPercentage divides the total by each participant's SharePercent.
	StrategyPercentage SplitStrategy = "percentage"

	// StrategyCustom takes each participant's ShareAmount as given.
	StrategyCustom SplitStrategy = "custom"
)

// Valid reports whether s is one of the known strategies.
func (s SplitStrategy) Valid() bool {
	switch s {
	case StrategyEqual, StrategyPercentage, StrategyCustom:
		return true
	}
	return false
}

// Participant is one person taking part in a split.
type Participant struct {
	// ID is unique within the split. It is not a foreign key into any
	// identity system.
	ID string `json:"id" yaml:"id"`

	// Name is the display name.
	Name string `json:"name" yaml:"name"`

	// Contact is a free-text contact handle (phone number, email, ...).
	Contact string `json:"contact" yaml:"contact"`

	// AmountPaid is what this person actually contributed.
	AmountPaid money.Amount `json:"amount_paid" yaml:"amount_paid"`

	// ShareAmount is what this person is responsible for.
	// Computed for equal and percentage splits, caller-supplied for custom.
	ShareAmount money.Amount `json:"share_amount" yaml:"share_amount"`

	// SharePercent is only meaningful under StrategyPercentage.
	SharePercent decimal.Decimal `json:"share_percent" yaml:"share_percent"`
}

// Balance is ShareAmount - AmountPaid. Positive means the participant owes
// money, negative means they are owed.
func (p Participant) Balance() money.Amount {
	return p.ShareAmount - p.AmountPaid
}

// Party returns the identity portion of the participant.
func (p Participant) Party() Party {
	return Party{ID: p.ID, Name: p.Name, Contact: p.Contact}
}

// SplitSpecification describes one shared expense.
type SplitSpecification struct {
	Description  string        `json:"description" yaml:"description"`
	TotalAmount  money.Amount  `json:"total_amount" yaml:"total_amount"`
	Strategy     SplitStrategy `json:"strategy" yaml:"strategy"`
	Participants []Participant `json:"participants" yaml:"participants"`
}

// Clone returns a copy with its own participant slice.
func (s SplitSpecification) Clone() SplitSpecification {
	out := s
	out.Participants = make([]Participant, len(s.Participants))
	copy(out.Participants, s.Participants)
	return out
}
