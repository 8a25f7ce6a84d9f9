package models

import (
	"time"

	"github.com/mmynk/settleup/internal/money"
)

// Direction is the obligation direction relative to the ledger owner.
type Direction string

const (
	// DirectionLent means the counterparty owes the owner.
	DirectionLent Direction = "lent"

	// DirectionBorrowed means the owner owes the counterparty.
	DirectionBorrowed Direction = "borrowed"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionLent || d == DirectionBorrowed
}

// DebtStatus is the lifecycle state of a DebtRecord.
type DebtStatus string

const (
	StatusPending DebtStatus = "pending"
	StatusPaid    DebtStatus = "paid"
)

// DebtRecord is a persistent obligation between the ledger owner and a
// counterparty. The only status transition is pending → paid; a paid record
// is never reopened.
type DebtRecord struct {
	// ID is the unique identifier (UUID format), assigned on creation.
	ID string `json:"id"`

	// OwnerID is the ledger owner the direction is relative to.
	OwnerID string `json:"owner_id"`

	// CounterpartyName and CounterpartyContact identify the other side.
	CounterpartyName    string `json:"counterparty_name"`
	CounterpartyContact string `json:"counterparty_contact"`

	// Amount is always positive.
	Amount money.Amount `json:"amount"`

	Direction Direction `json:"direction"`

	// Description is a provenance label. Settlement-derived records
	// reference the originating split's description.
	Description string `json:"description"`

	// DueDate defaults to creation time + 7 days for settlement-derived
	// records.
	DueDate time.Time `json:"due_date"`

	Status DebtStatus `json:"status"`

	// CreatedAt is immutable.
	CreatedAt time.Time `json:"created_at"`

	// PaidAt is set when the record transitions to paid.
	PaidAt *time.Time `json:"paid_at,omitempty"`

	// SplitID groups the records produced by one settlement run.
	// Empty for manually created records.
	SplitID string `json:"split_id,omitempty"`

	// Version is bumped on every update and used for optimistic concurrency.
	Version int64 `json:"version"`
}

// IsPending reports whether the debt is still outstanding.
func (d *DebtRecord) IsPending() bool {
	return d.Status == StatusPending
}

// DebtFilter selects records in List. Zero-valued fields match everything.
type DebtFilter struct {
	OwnerID   string
	Direction Direction
	Status    DebtStatus

	// DueBefore, if set, keeps records due strictly before it.
	DueBefore time.Time
}
