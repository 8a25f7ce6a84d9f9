package calculator

import (
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name string
		spec models.SplitSpecification
		want []money.Amount
	}{
		{
			name: "equal split divides evenly",
			spec: models.SplitSpecification{
				Description:  "Dinner",
				TotalAmount:  money.MustParse("900"),
				Strategy:     models.StrategyEqual,
				Participants: []models.Participant{person("A", "900"), person("B", "0"), person("C", "0")},
			},
			want: amounts("300", "300", "300"),
		},
		{
			name: "equal split gives remainder to first participant",
			spec: models.SplitSpecification{
				Description:  "Taxi",
				TotalAmount:  money.MustParse("100"),
				Strategy:     models.StrategyEqual,
				Participants: []models.Participant{person("A", "100"), person("B", "0"), person("C", "0")},
			},
			want: amounts("33.34", "33.33", "33.33"),
		},
		{
			name: "equal split spreads remainder over first k participants",
			spec: models.SplitSpecification{
				Description:  "Groceries",
				TotalAmount:  money.MustParse("0.05"),
				Strategy:     models.StrategyEqual,
				Participants: []models.Participant{person("A", "0.05"), person("B", "0"), person("C", "0")},
			},
			want: amounts("0.02", "0.02", "0.01"),
		},
		{
			name: "percentage split",
			spec: models.SplitSpecification{
				Description: "Rent",
				TotalAmount: money.MustParse("1000"),
				Strategy:    models.StrategyPercentage,
				Participants: []models.Participant{
					withPercent(person("A", "1000"), "50"),
					withPercent(person("B", "0"), "30"),
					withPercent(person("C", "0"), "20"),
				},
			},
			want: amounts("500", "300", "200"),
		},
		{
			name: "percentage split with rounding remainder",
			spec: models.SplitSpecification{
				Description: "Trip",
				TotalAmount: money.MustParse("100"),
				Strategy:    models.StrategyPercentage,
				Participants: []models.Participant{
					withPercent(person("A", "100"), "33.34"),
					withPercent(person("B", "0"), "33.33"),
					withPercent(person("C", "0"), "33.33"),
				},
			},
			want: amounts("33.34", "33.33", "33.33"),
		},
		{
			name: "percentage fractions floor then distribute",
			spec: models.SplitSpecification{
				Description: "Utilities",
				TotalAmount: money.MustParse("10.01"),
				Strategy:    models.StrategyPercentage,
				Participants: []models.Participant{
					withPercent(person("A", "10.01"), "50"),
					withPercent(person("B", "0"), "50"),
				},
			},
			want: amounts("5.01", "5.00"),
		},
		{
			name: "percentage over 100 takes back only from positive shares",
			spec: models.SplitSpecification{
				Description: "Deposit",
				TotalAmount: money.MustParse("10000"),
				Strategy:    models.StrategyPercentage,
				Participants: []models.Participant{
					withPercent(person("A", "0"), "0"),
					withPercent(person("B", "10000"), "100.01"),
				},
			},
			want: amounts("0", "10000"),
		},
		{
			name: "percentage over 100 spreads the excess over nonzero shares",
			spec: models.SplitSpecification{
				Description: "Hotel",
				TotalAmount: money.MustParse("10000"),
				Strategy:    models.StrategyPercentage,
				Participants: []models.Participant{
					withPercent(person("A", "10000"), "50.01"),
					withPercent(person("B", "0"), "0"),
					withPercent(person("C", "0"), "50"),
				},
			},
			want: amounts("5000.50", "0", "4999.50"),
		},
		{
			name: "custom split passes shares through",
			spec: models.SplitSpecification{
				Description: "Concert",
				TotalAmount: money.MustParse("75"),
				Strategy:    models.StrategyCustom,
				Participants: []models.Participant{
					withShare(person("A", "75"), "50"),
					withShare(person("B", "0"), "25"),
				},
			},
			want: amounts("50", "25"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeShares(tt.spec)
			assert.Equal(t, tt.want, shares(got))

			var sum money.Amount
			for _, p := range got.Participants {
				assert.GreaterOrEqual(t, p.ShareAmount, money.Zero, p.ID)
				sum += p.ShareAmount
			}
			assert.Equal(t, got.TotalAmount, sum)
		})
	}
}

func TestComputeShares_DoesNotMutateInput(t *testing.T) {
	spec := models.SplitSpecification{
		Description:  "Lunch",
		TotalAmount:  money.MustParse("10"),
		Strategy:     models.StrategyEqual,
		Participants: []models.Participant{person("A", "10"), person("B", "0")},
	}

	ComputeShares(spec)

	for _, p := range spec.Participants {
		assert.Equal(t, money.Zero, p.ShareAmount)
	}
}

func TestComputeShares_EqualSumsToTotal(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for n := 1; n <= 12; n++ {
		for trial := 0; trial < 50; trial++ {
			total := money.FromMinor(r.Int64N(1_000_000) + 1)
			spec := models.SplitSpecification{Strategy: models.StrategyEqual, TotalAmount: total}
			for i := 0; i < n; i++ {
				spec.Participants = append(spec.Participants, person(string(rune('A'+i)), "0"))
			}

			got := shares(ComputeShares(spec))

			assert.Equal(t, total, money.Sum(got...), "n=%d total=%s", n, total)
			for i := 1; i < n; i++ {
				assert.LessOrEqual(t, got[i-1]-got[i], money.FromMinor(1))
				assert.GreaterOrEqual(t, got[i-1], got[i])
			}
		}
	}
}

func TestComputeShares_PercentageSumsToTotal(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for trial := 0; trial < 200; trial++ {
		n := r.IntN(8) + 2
		total := money.FromMinor(r.Int64N(10_000_000) + 1)

		// Random percentages with two decimals that add up to exactly 100.
		remaining := int64(10000)
		spec := models.SplitSpecification{Strategy: models.StrategyPercentage, TotalAmount: total}
		for i := 0; i < n; i++ {
			bp := remaining
			if i < n-1 {
				bp = r.Int64N(remaining + 1)
			}
			remaining -= bp
			p := person(string(rune('A'+i)), "0")
			p.SharePercent = decimal.New(bp, -2)
			spec.Participants = append(spec.Participants, p)
		}

		got := shares(ComputeShares(spec))

		assert.Equal(t, total, money.Sum(got...), "trial %d", trial)
	}
}

func TestComputeShares_PercentageDriftKeepsSharesNonNegative(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for trial := 0; trial < 200; trial++ {
		n := r.IntN(8) + 2
		total := money.FromMinor(r.Int64N(10_000_000) + 1)

		// Percentages add up to 100.01, the edge of the accepted tolerance,
		// and roughly half the participants have 0%.
		remaining := int64(10001)
		spec := models.SplitSpecification{Strategy: models.StrategyPercentage, TotalAmount: total}
		for i := 0; i < n; i++ {
			bp := remaining
			if i < n-1 {
				bp = 0
				if r.IntN(2) == 0 {
					bp = r.Int64N(remaining + 1)
				}
			}
			remaining -= bp
			p := person(string(rune('A'+i)), "0")
			p.SharePercent = decimal.New(bp, -2)
			spec.Participants = append(spec.Participants, p)
		}

		got := ComputeShares(spec)

		assert.Equal(t, total, money.Sum(shares(got)...), "trial %d", trial)
		for _, p := range got.Participants {
			assert.GreaterOrEqual(t, p.ShareAmount, money.Zero, "trial %d participant %s", trial, p.ID)
		}
	}
}
