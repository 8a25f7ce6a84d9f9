package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

func person(id, paid string) models.Participant {
	return models.Participant{
		ID:         id,
		Name:       id,
		Contact:    "+91 98765 0000" + id,
		AmountPaid: money.MustParse(paid),
	}
}

func withPercent(p models.Participant, pct string) models.Participant {
	p.SharePercent = decimal.RequireFromString(pct)
	return p
}

func withShare(p models.Participant, share string) models.Participant {
	p.ShareAmount = money.MustParse(share)
	return p
}

func shares(spec models.SplitSpecification) []money.Amount {
	out := make([]money.Amount, len(spec.Participants))
	for i, p := range spec.Participants {
		out[i] = p.ShareAmount
	}
	return out
}

func amounts(values ...string) []money.Amount {
	out := make([]money.Amount, len(values))
	for i, v := range values {
		out[i] = money.MustParse(v)
	}
	return out
}
