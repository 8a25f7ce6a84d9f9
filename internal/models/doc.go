// Package models defines the core domain models for SettleUp.
//
// # Transient models
//
// A SplitSpecification and its Participants live only for the duration of
// one validate → allocate → settle run:
//   - SplitSpecification: a shared expense and how it is divided
//   - Participant: one person in a split, with what they paid and owe
//   - Settlement: one directed transfer from a debtor to a creditor
//
// # Persistent models
//
//   - DebtRecord: an obligation owned by a ledger owner, tracked from
//     pending to paid
//
// # Identity
//
// Participants are identified by opaque strings scoped to a split. When a
// split is settled through the ledger, the owner's participant ID doubles as
// the ledger owner ID, so the authenticated user must appear in the split
// under their own user ID.
//
// # Money
//
// Every currency value is a money.Amount (integer minor units). Percentages
// are decimals because they are inherently lossy when converted to amounts.
package models
