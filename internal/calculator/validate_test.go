package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

func validEqualSplit() models.SplitSpecification {
	return models.SplitSpecification{
		Description:  "Dinner",
		TotalAmount:  money.MustParse("900"),
		Strategy:     models.StrategyEqual,
		Participants: []models.Participant{person("A", "900"), person("B", "0"), person("C", "0")},
	}
}

func codes(vs []Violation) []ViolationCode {
	out := make([]ViolationCode, len(vs))
	for i, v := range vs {
		out[i] = v.Code
	}
	return out
}

func TestValidateSplit_Valid(t *testing.T) {
	assert.Empty(t, ValidateSplit(validEqualSplit()))
	assert.NoError(t, Validate(validEqualSplit()))
}

func TestValidateSplit_PercentageNot100(t *testing.T) {
	spec := models.SplitSpecification{
		Description: "Rent",
		TotalAmount: money.MustParse("1000"),
		Strategy:    models.StrategyPercentage,
		Participants: []models.Participant{
			withPercent(person("A", "1000"), "50"),
			withPercent(person("B", "0"), "25"),
			withPercent(person("C", "0"), "20"),
		},
	}

	vs := ValidateSplit(spec)

	require.Len(t, vs, 1)
	assert.Equal(t, CodePercentMismatch, vs[0].Code)
	assert.Equal(t, "percentages must sum to 100%", vs[0].Message)
}

func TestValidateSplit_PercentageWithinTolerance(t *testing.T) {
	spec := models.SplitSpecification{
		Description: "Rent",
		TotalAmount: money.MustParse("100"),
		Strategy:    models.StrategyPercentage,
		Participants: []models.Participant{
			withPercent(person("A", "100"), "33.33"),
			withPercent(person("B", "0"), "33.33"),
			withPercent(person("C", "0"), "33.33"),
		},
	}

	assert.Empty(t, ValidateSplit(spec))
	assert.Equal(t, spec.TotalAmount, money.Sum(shares(ComputeShares(spec))...))
}

func TestValidateSplit_CustomShareMismatch(t *testing.T) {
	spec := models.SplitSpecification{
		Description: "Concert",
		TotalAmount: money.MustParse("75"),
		Strategy:    models.StrategyCustom,
		Participants: []models.Participant{
			withShare(person("A", "75"), "50"),
			withShare(person("B", "0"), "20"),
		},
	}

	vs := ValidateSplit(spec)

	require.Len(t, vs, 1)
	assert.Equal(t, CodeShareMismatch, vs[0].Code)
	assert.Equal(t, "share amounts must equal total expense (70.00 ≠ 75.00)", vs[0].Message)
}

func TestValidateSplit_CollectsAllViolationsInOrder(t *testing.T) {
	spec := models.SplitSpecification{
		Description: "  ",
		TotalAmount: 0,
		Strategy:    models.StrategyPercentage,
		Participants: []models.Participant{
			{ID: "A", Name: "", Contact: "a@example.com", AmountPaid: money.MustParse("10")},
			{ID: "B", Name: "Bob", Contact: "", AmountPaid: money.MustParse("5")},
		},
	}

	vs := ValidateSplit(spec)

	assert.Equal(t, []ViolationCode{
		CodeDescriptionRequired,
		CodeTotalNotPositive,
		CodeNameRequired,
		CodeContactRequired,
		CodePaidMismatch,
		CodePercentMismatch,
	}, codes(vs))
	assert.Equal(t, "total paid (15.00) must equal expense amount (0.00)", vs[4].Message)
}

func TestValidateSplit_Participants(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		want         ViolationCode
	}{
		{
			name:         "single participant",
			participants: []models.Participant{person("A", "900")},
			want:         CodeTooFewParticipants,
		},
		{
			name:         "duplicate ids",
			participants: []models.Participant{person("A", "450"), person("A", "450")},
			want:         CodeParticipantID,
		},
		{
			name: "missing id",
			participants: []models.Participant{
				person("A", "900"),
				{Name: "Ghost", Contact: "ghost@example.com"},
			},
			want: CodeParticipantID,
		},
		{
			name:         "negative payment",
			participants: []models.Participant{person("A", "1000"), person("B", "-100")},
			want:         CodeNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validEqualSplit()
			spec.Participants = tt.participants

			assert.Contains(t, codes(ValidateSplit(spec)), tt.want)
		})
	}
}

func TestValidateSplit_UnknownStrategy(t *testing.T) {
	spec := validEqualSplit()
	spec.Strategy = "weighted"

	assert.Equal(t, []ViolationCode{CodeUnknownStrategy}, codes(ValidateSplit(spec)))
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	spec := validEqualSplit()
	spec.Description = ""

	err := Validate(spec)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 1)
	assert.Contains(t, err.Error(), "description is required")
}

func TestValidateSplit_AmountsOutOfRange(t *testing.T) {
	huge := money.FromMinor(6_150_000_000_000_000_000)
	spec := models.SplitSpecification{
		Description: "Overflow",
		Strategy:    models.StrategyEqual,
		Participants: []models.Participant{
			{ID: "A", Name: "A", Contact: "a", AmountPaid: huge},
			{ID: "B", Name: "B", Contact: "b", AmountPaid: huge},
			{ID: "C", Name: "C", Contact: "c", AmountPaid: huge},
		},
	}
	// The naive int64 sum of the payments wraps around.
	for _, p := range spec.Participants {
		spec.TotalAmount += p.AmountPaid
	}

	vs := ValidateSplit(spec)

	assert.Contains(t, codes(vs), CodeAmountTooLarge)
	assert.Contains(t, codes(vs), CodePaidMismatch)
	assert.Error(t, Validate(spec))
}

func TestValidateSplit_CustomSharesOverflow(t *testing.T) {
	spec := models.SplitSpecification{
		Description: "Concert",
		TotalAmount: money.MustParse("75"),
		Strategy:    models.StrategyCustom,
		Participants: []models.Participant{
			withShare(person("A", "75"), "75"),
			{ID: "B", Name: "B", Contact: "b", ShareAmount: money.MaxAmount},
			{ID: "C", Name: "C", Contact: "c", ShareAmount: money.MaxAmount},
		},
	}

	vs := ValidateSplit(spec)

	require.Len(t, vs, 1)
	assert.Equal(t, CodeShareMismatch, vs[0].Code)
	assert.Contains(t, vs[0].Message, "share amounts exceed")
}
