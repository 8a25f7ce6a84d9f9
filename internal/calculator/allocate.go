// Package calculator implements split validation, share allocation and
// settlement solving. Everything here is pure and works on integer minor
// units, so sums are exact.
package calculator

import (
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

// ComputeShares returns a copy of spec with every participant's ShareAmount
// populated according to the strategy.
//
// Equal and percentage splits distribute leftover minor units one at a time
// to participants in input order, so the shares always sum to TotalAmount.
// Custom shares are passed through unchanged; checking them is the
// validator's job.
func ComputeShares(spec models.SplitSpecification) models.SplitSpecification {
	out := spec.Clone()
	n := len(out.Participants)
	if n == 0 {
		return out
	}

	switch out.Strategy {
	case models.StrategyEqual:
		base := out.TotalAmount / money.Amount(n)
		for i := range out.Participants {
			out.Participants[i].ShareAmount = base
		}
		distributeRemainder(out.Participants, out.TotalAmount-base*money.Amount(n))

	case models.StrategyPercentage:
		var allocated money.Amount
		for i := range out.Participants {
			p := &out.Participants[i]
			p.ShareAmount = out.TotalAmount.PercentFloor(p.SharePercent)
			allocated += p.ShareAmount
		}
		distributeRemainder(out.Participants, out.TotalAmount-allocated)
	}

	return out
}

// distributeRemainder spreads rem minor units round-robin over participants
// in input order. A negative remainder is taken back the same way, skipping
// shares that are already zero so no share goes negative.
//
// A negative rem never exceeds the sum of the shares, since the shares were
// floored from a total of at least -rem.
func distributeRemainder(participants []models.Participant, rem money.Amount) {
	if rem > 0 {
		for i := 0; rem > 0; i = (i + 1) % len(participants) {
			participants[i].ShareAmount++
			rem--
		}
		return
	}
	for i := 0; rem < 0; i = (i + 1) % len(participants) {
		if participants[i].ShareAmount > 0 {
			participants[i].ShareAmount--
			rem++
		}
	}
}
